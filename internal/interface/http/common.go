package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agriassist/agriassist-api/internal/interface/middleware"
)

func userID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

func clientIP(c *gin.Context) string {
	return middleware.ClientIP(c)
}
