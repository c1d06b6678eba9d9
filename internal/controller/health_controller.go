package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "down"
	} else {
		checks["database"] = "up"
	}

	if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
		status = http.StatusServiceUnavailable
		checks["redis"] = "down"
	} else {
		checks["redis"] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	ctx.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}
