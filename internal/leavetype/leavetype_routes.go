package leavetype

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", handler.GetAll)
		types.GET("/options", handler.GetOptions)
		types.GET("/:id", handler.GetById)

		hr := types.Group("")
		hr.Use(middleware.RoleMiddleware("hr", "admin"))
		{
			hr.POST("", handler.Create)
			hr.PUT("/:id", handler.Update)
			hr.DELETE("/:id", handler.Deactivate)
		}
	}
}
