package balance

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", handler.GetMine)

		hr := balances.Group("")
		hr.Use(middleware.RoleMiddleware("hr", "admin"))
		{
			hr.GET("/employees/:employeeId", handler.GetForEmployee)
			hr.POST("", handler.Provision)
		}
	}
}
