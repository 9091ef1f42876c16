package api

import (
	"io"                          // Stream writer
	"net/http"                    // HTTP status codes
	"paychat/internal/chain"      // Wallet key validation
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/events"     // Profile change events
	"paychat/internal/middleware" // Session helpers
	"paychat/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// LinkWalletRequest links a wallet key to the profile
type LinkWalletRequest struct {
	PublicKey string `json:"publicKey" binding:"required"` // Base58 wallet key
}

// GetProfileHandler returns the signed-in profile
func GetProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// LinkWalletHandler stores the wallet key with a partial update, leaving other fields alone
func LinkWalletHandler(db *gorm.DB, rdb *redis.Client, bus *events.ProfileBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req LinkWalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please connect your wallet"})
			return
		}
		key, err := chain.ParsePublicKey(req.PublicKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet key"})
			return
		}
		ctx := c.Request.Context()
		if err := db.WithContext(ctx).Model(&domain.User{}).Where("uid = ?", user.UID).
			Update("public_key", key.String()).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"uid":   user.UID,    // Profile ID
				"error": err.Error(), // Error message
			}).Error("Failed to link wallet")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link wallet"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"uid":        user.UID,     // Profile ID
			"public_key": key.String(), // Linked key
		}).Info("Wallet linked")
		_ = utils.DeleteCache(ctx, rdb, utils.ProfileCacheKey(user.UID)) // Invalidate profile cache
		if err := bus.Publish(ctx, user.UID, events.WalletLinked); err != nil {
			logrus.WithError(err).Warn("Failed to publish profile event")
		}
		c.JSON(http.StatusOK, gin.H{"publicKey": key.String()})
	}
}

// ProfileEventsHandler streams profile changes to the session as server-sent events
func ProfileEventsHandler(bus *events.ProfileBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context() // Subscription ends with the request
		ch, err := bus.Subscribe(ctx, user.UID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to subscribe to profile"})
			return
		}
		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("profile", ev) // Client re-fetches the profile on each event
				return true
			case <-ctx.Done():
				return false
			}
		})
	}
}
