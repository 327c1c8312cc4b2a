package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agriassist/agriassist-api/pkg/helpers"
	"github.com/agriassist/agriassist-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxPhoneKey  = "userPhone"
)

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if tok, err := c.Cookie("access_token"); err == nil {
		return tok
	}
	return ""
}

// Auth validates the identity token from the Authorization header or the
// access_token cookie and sets userID and userPhone in the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		if jwt == nil {
			response.Abort(c, http.StatusServiceUnavailable, "authentication not configured", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxPhoneKey, claims.PhoneNumber)
		c.Next()
	}
}
