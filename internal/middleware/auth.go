package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"buslink/internal/models"
	"buslink/internal/services"
	"buslink/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the logged-in user id.
const SessionUserKey = "user_id"

// AuthRequired rejects requests without a resolved caller identity.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": services.CodeUnauthorized, "message": "login required"},
			})
			return
		}
		c.Next()
	}
}

// LoadUser resolves the caller from the session cookie or a bearer token
// and stores the author record in the context.
func LoadUser(users services.IdentityProvider, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ""
		session := sessions.Default(c)
		if v, ok := session.Get(SessionUserKey).(string); ok {
			userID = v
		}

		if userID == "" {
			authHeader := c.GetHeader("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				if id, err := utils.ParseToken(jwtSecret, strings.TrimSpace(token)); err == nil {
					userID = id
				}
			}
		}

		if userID != "" {
			authors, err := users.GetUsersByIDs(c.Request.Context(), []string{userID})
			if err != nil {
				// 身份服务不可用时不能当作匿名用户
				log.Printf("[auth] failed to resolve caller %s: %v", userID, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{"code": services.CodeInternal, "message": "something went wrong, please try again later"},
				})
				return
			}
			// 用户不存在则按匿名处理
			if len(authors) == 1 {
				author := authors[0]
				c.Set(CheckUserKey, &author)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (*models.Author, bool) {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	author, ok := v.(*models.Author)
	return author, ok
}

// Timeout bounds every store and identity call made while serving a request.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
