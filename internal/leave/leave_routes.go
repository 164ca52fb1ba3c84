package leave

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.Idempotency(rdb), handler.Create)
		leaves.GET("/me", handler.ListMine)
		leaves.GET("/:id", handler.GetByID)
		leaves.PATCH("/:id", handler.Update)
		leaves.POST("/:id/cancel", handler.Cancel)
		leaves.POST("/:id/withdraw", handler.Withdraw)

		approvers := leaves.Group("")
		approvers.Use(middleware.RoleMiddleware("manager", "hr", "admin"))
		{
			approvers.GET("", handler.ListAll)
			approvers.POST("/:id/approve", handler.Approve)
			approvers.POST("/:id/reject", handler.Reject)
		}
	}
}
