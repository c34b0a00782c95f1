package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home godoc
// @Summary Service health
// @Description Returns a simple liveness payload
// @Tags home
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "workdoc engine", "status": "ok"})
}
