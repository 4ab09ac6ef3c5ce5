package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GHASConsulting/nps-growth-lab/config"
)

// Health responde ok quando o banco aceita ping.
func Health(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
