package app

import (
	"database/sql"

	"leavedesk/internal/balance"
	"leavedesk/internal/employee"
	"leavedesk/internal/leave"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	directory := employee.NewDirectory(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	ledger := balance.NewLedger(balanceRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	balanceService := balance.NewService(balanceRepo)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		ledger,
		leaveTypeRepo,
		directory,
		outboxRepo,
		leave.NewWorkweekCalendar(),
	)

	// --- Handlers ---
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler)
		balance.RegisterRoutes(api, balanceHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
	}

	return nil
}
