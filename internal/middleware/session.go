package middleware

import (
	"errors"                  // Error inspection
	"net/http"                // HTTP status codes
	"paychat/internal/domain" // Importing domain models
	"paychat/internal/utils"  // JWT and cache helpers
	"strings"                 // String manipulation
	"time"                    // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// AuthCookie is the cookie carrying the session token
const AuthCookie = "authToken"

// userKey is the gin context key of the signed-in profile
const userKey = "user"

// ErrNoSession is returned when a request carries no token
var ErrNoSession = errors.New("no session token")

// TokenFromRequest returns the session token from the cookie, falling back to a Bearer header
func TokenFromRequest(c *gin.Context) string {
	if tok, err := c.Cookie(AuthCookie); err == nil && tok != "" {
		return tok
	}
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// ProfileTTL bounds how long a cached profile is served
const ProfileTTL = 60 * time.Second

// VerifyUser validates the request's token and loads the profile it names, from cache when possible
func VerifyUser(c *gin.Context, db *gorm.DB, rdb *redis.Client, secret string) (*domain.User, error) {
	tokenStr := TokenFromRequest(c)
	if tokenStr == "" {
		return nil, ErrNoSession
	}
	claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
	if err != nil {
		return nil, err
	}
	ctx := c.Request.Context()
	cacheKey := utils.ProfileCacheKey(claims.UID) // Cache key for profile
	var user domain.User
	if found, err := utils.GetCache(ctx, rdb, cacheKey, &user); err == nil && found {
		return &user, nil // Served from cache
	}
	// Fetch profile with its contacts
	if err := db.WithContext(ctx).Preload("Contacts").First(&user, "uid = ?", claims.UID).Error; err != nil {
		return nil, err
	}
	_ = utils.SetCache(ctx, rdb, cacheKey, &user, ProfileTTL) // Writers invalidate on change
	return &user, nil
}

// SessionMiddleware rejects API requests without a valid session and stores the profile in context
func SessionMiddleware(db *gorm.DB, rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := VerifyUser(c, db, rdb, secret)
		if err != nil {
			// Missing, expired or orphaned token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(userKey, user) // Store profile in context
		c.Next()             // Proceed to the next handler
	}
}

// CurrentUser returns the profile stored by SessionMiddleware or Redirects
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
