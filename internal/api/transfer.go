package api

import (
	"errors"                      // Error inspection
	"net/http"                    // HTTP status codes
	"paychat/internal/chain"      // Payment network client
	"paychat/internal/currency"   // Lamport conversion
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/events"     // Domain events
	"paychat/internal/middleware" // Session helpers
	"paychat/internal/utils"      // Utility functions
	"time"                        // Timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// PrepareTransferRequest describes the transfer the wallet should sign
type PrepareTransferRequest struct {
	Amount       float64 `json:"amount"`       // Amount in stablecoin units
	RecipientUID string  `json:"recipientUid"` // Selected contact
}

// SubmitTransferRequest records a transfer the wallet already sent
type SubmitTransferRequest struct {
	Signature    string  `json:"signature"`    // Network transaction signature
	Amount       float64 `json:"amount"`       // Amount in stablecoin units
	RecipientUID string  `json:"recipientUid"` // Selected contact
}

// resolveRecipient applies the transfer guards and returns the selected contact, or a user-facing message
func resolveRecipient(user *domain.User, amount float64, recipientUID string) (*domain.Contact, string) {
	if !user.HasWallet() {
		return nil, "Please connect your wallet"
	}
	if amount <= 0 {
		return nil, "Please specify an amount and recipient"
	}
	if recipientUID == "" {
		return nil, "Please add a recipient"
	}
	recipient := user.FindContact(recipientUID)
	if recipient == nil {
		return nil, "Please add a recipient"
	}
	if recipient.PublicKey == "" {
		return nil, "Recipient has not connected a wallet"
	}
	if recipient.UID == user.UID || recipient.PublicKey == user.PublicKey {
		return nil, "Cannot transfer to yourself"
	}
	return recipient, ""
}

// expectedTransfer is the on-chain transfer a submission claims to be
func expectedTransfer(user *domain.User, recipient *domain.Contact, lamports uint64) (chain.Transfer, error) {
	from, err := chain.ParsePublicKey(user.PublicKey)
	if err != nil {
		return chain.Transfer{}, err
	}
	to, err := chain.ParsePublicKey(recipient.PublicKey)
	if err != nil {
		return chain.Transfer{}, err
	}
	return chain.Transfer{From: from, To: to, Lamports: lamports}, nil
}

// PrepareTransferHandler builds the unsigned transfer for the sender's wallet to sign and send
func PrepareTransferHandler(client chain.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req PrepareTransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		recipient, msg := resolveRecipient(user, req.Amount, req.RecipientUID)
		if recipient == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		lamports, err := currency.ToLamports(req.Amount) // Rounded to base units
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount is too large"})
			return
		}
		if lamports == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount is too small"})
			return
		}
		from, err := chain.ParsePublicKey(user.PublicKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please connect your wallet"})
			return
		}
		to, err := chain.ParsePublicKey(recipient.PublicKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient has not connected a wallet"})
			return
		}
		blockhash, err := client.LatestBlockhash(c.Request.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch blockhash")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Transaction failed"})
			return
		}
		tx, err := chain.BuildTransfer(from, to, lamports, blockhash)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
			return
		}
		encoded, err := chain.Encode(tx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transaction": encoded,            // Base64 unsigned transaction
			"lamports":    lamports,           // Amount in base units
			"blockhash":   blockhash.String(), // Blockhash the transaction expires with
			"recipient":   recipient.Party(),  // Resolved recipient
		})
	}
}

// SubmitTransferHandler records a sent transfer keyed by its network signature
func SubmitTransferHandler(db *gorm.DB, rdb *redis.Client, client chain.Client, confirm bool, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SubmitTransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		recipient, msg := resolveRecipient(user, req.Amount, req.RecipientUID)
		if recipient == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		sig, err := chain.ParseSignature(req.Signature)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction signature"})
			return
		}
		lamports, err := currency.ToLamports(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount is too large"})
			return
		}
		ctx := c.Request.Context()
		if confirm {
			want, err := expectedTransfer(user, recipient, lamports)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Please connect your wallet"})
				return
			}
			// The signed transaction must move exactly this amount between these wallets
			if err := client.VerifyTransfer(ctx, sig, want); errors.Is(err, chain.ErrNotConfirmed) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction not confirmed"})
				return
			} else if errors.Is(err, chain.ErrTransferMismatch) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction does not match the transfer"})
				return
			} else if err != nil {
				logrus.WithFields(logrus.Fields{
					"signature": sig.String(), // Network signature
					"error":     err.Error(),  // Error message
				}).Error("Failed to confirm transfer")
				c.JSON(http.StatusBadGateway, gin.H{"error": "Transaction failed"})
				return
			}
		}
		record := domain.Transaction{
			ID:        sig.String(),
			Amount:    req.Amount,
			Sender:    user.Party(),
			Recipient: recipient.Party(),
			Timestamp: time.Now().UnixMilli(),
			Status:    domain.StatusCompleted,
			Type:      domain.TypeDirect,
		}
		var existing int64 // A signature is recorded once
		if err := db.WithContext(ctx).Model(&domain.Transaction{}).Where("id = ?", record.ID).Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction already recorded"})
			return
		}
		if err := db.WithContext(ctx).Create(&record).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"signature": record.ID,   // Network signature
				"uid":       user.UID,    // Sender
				"error":     err.Error(), // Error message
			}).Error("Failed to record transfer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"signature":    record.ID,        // Network signature
			"from_uid":     user.UID,         // Sender
			"to_uid":       recipient.UID,    // Recipient
			"amount":       record.Amount,    // Transfer amount
			"type":         record.Type,      // Transaction type
			"timestamp_ms": record.Timestamp, // Recorded at
		}).Info("Transfer transaction")
		// Invalidate transaction history cache for both users
		_ = utils.DeleteCachePrefix(ctx, rdb, utils.HistoryCachePrefix(user.UID))
		_ = utils.DeleteCachePrefix(ctx, rdb, utils.HistoryCachePrefix(recipient.UID))
		if err := pub.Publish(ctx, events.SubjectTransactionCompleted, record); err != nil {
			logrus.WithError(err).Warn("Failed to publish transfer event")
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Transaction sent!", "transaction": record})
	}
}
