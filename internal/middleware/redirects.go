package middleware

import (
	"net/http"                // HTTP status codes
	"paychat/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Redirect hooks of a page. Each returns a destination, or "" to render the page.
type RedirectOptions struct {
	OnAuthSuccess func(c *gin.Context, user *domain.User) string // Runs with a verified profile
	OnAuthFailure func(c *gin.Context) string                    // Runs without one
}

// Redirects guards a page: the session is verified once and the matching hook decides where the request goes
func Redirects(db *gorm.DB, rdb *redis.Client, secret string, opts RedirectOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := VerifyUser(c, db, rdb, secret)
		if err != nil {
			// Failed verification counts as signed out
			if opts.OnAuthFailure != nil {
				if dest := opts.OnAuthFailure(c); dest != "" {
					c.Redirect(http.StatusFound, dest)
					c.Abort()
					return
				}
			}
			c.Next()
			return
		}
		c.Set(userKey, user) // Page handlers render from the verified profile
		if opts.OnAuthSuccess != nil {
			if dest := opts.OnAuthSuccess(c, user); dest != "" {
				c.Redirect(http.StatusFound, dest)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// ToLogin sends signed-out visitors to the login page
func ToLogin(*gin.Context) string {
	return "/login"
}

// RequireWallet sends profiles without a linked wallet to the wallet page
func RequireWallet(_ *gin.Context, user *domain.User) string {
	if !user.HasWallet() {
		return "/wallet"
	}
	return ""
}

// SkipWallet sends profiles that already linked a wallet home
func SkipWallet(_ *gin.Context, user *domain.User) string {
	if user.HasWallet() {
		return "/"
	}
	return ""
}

// ToHome sends signed-in visitors home
func ToHome(*gin.Context, *domain.User) string {
	return "/"
}
