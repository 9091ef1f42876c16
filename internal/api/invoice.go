package api

import (
	"net/http"                    // HTTP status codes
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/events"     // Domain events
	"paychat/internal/middleware" // Session helpers
	"paychat/internal/notify"     // Invoice mail
	"paychat/internal/utils"      // Utility functions
	"time"                        // Timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Invoice IDs
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateInvoiceRequest asks a contact to pay the signed-in user
type CreateInvoiceRequest struct {
	PayerUID string  `json:"payerUid"` // Contact who will pay
	Amount   float64 `json:"amount"`   // Requested amount in stablecoin units
}

// CreateInvoiceHandler persists a payment request; the payer is the sender and the issuer the recipient
func CreateInvoiceHandler(db *gorm.DB, rdb *redis.Client, pub events.Publisher, mailer notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		payer := user.FindContact(req.PayerUID) // Payer must be a saved contact
		if req.PayerUID == "" || payer == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select who should pay"})
			return
		}
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please specify an amount"})
			return
		}
		invoice := domain.Transaction{
			ID:        uuid.NewString(),
			Amount:    req.Amount,
			Sender:    payer.Party(),
			Recipient: user.Party(),
			Timestamp: time.Now().UnixMilli(),
			Status:    domain.StatusPending,
			Type:      domain.TypeRequest,
		}
		ctx := c.Request.Context()
		if err := db.WithContext(ctx).Create(&invoice).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"uid":   user.UID,    // Issuer
				"error": err.Error(), // Error message
			}).Error("Failed to make the invoice")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to make the invoice"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"invoice_id": invoice.ID,     // Generated ID
			"issuer_uid": user.UID,       // Recipient of the payment
			"payer_uid":  payer.UID,      // Sender of the payment
			"amount":     invoice.Amount, // Requested amount
		}).Info("Invoice created")
		_ = utils.DeleteCachePrefix(ctx, rdb, utils.HistoryCachePrefix(user.UID))
		_ = utils.DeleteCachePrefix(ctx, rdb, utils.HistoryCachePrefix(payer.UID))
		if err := pub.Publish(ctx, events.SubjectInvoiceCreated, invoice); err != nil {
			logrus.WithError(err).Warn("Failed to publish invoice event")
		}
		if err := mailer.InvoiceCreated(ctx, &invoice); err != nil {
			logrus.WithError(err).Warn("Failed to mail invoice") // The invoice stands without the mail
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Invoice created!", "invoice": invoice})
	}
}
