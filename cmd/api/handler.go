package api

import (
	"taskpilot-backend/internal/auth/delivery"
	authUsecasePkg "taskpilot-backend/internal/auth/usecase"
	taskDelivery "taskpilot-backend/internal/task/delivery"
	"taskpilot-backend/internal/task/scheduler"
	taskUsecasePkg "taskpilot-backend/internal/task/usecase"
	"taskpilot-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecasePkg.AuthUsecase
	config      *config.Config
	authHandler *delivery.AuthHandler
	taskHandler *taskDelivery.TaskHandler
}

func NewHandler(authUc authUsecasePkg.AuthUsecase, taskUc taskUsecasePkg.TaskUsecase, reminders *scheduler.ReminderScheduler, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		config:      cfg,
		authHandler: delivery.NewAuthHandler(authUc),
		taskHandler: taskDelivery.NewTaskHandler(taskUc, reminders),
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.taskHandler)

	return r.Run(addr)
}
