package api

import (
	"net/http"                    // HTTP status codes
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/middleware" // Session helpers
	"paychat/internal/utils"      // Utility functions
	"strconv"                     // String conversion
	"time"                        // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HistoryEntry is a transaction seen from the signed-in user
type HistoryEntry struct {
	domain.Transaction
	Direction string `json:"direction"` // sent or received
}

// historyPage is the cached shape of one page
type historyPage struct {
	Transactions []HistoryEntry `json:"transactions"` // List of transactions
	Page         int            `json:"page"`         // Current page
	PageSize     int            `json:"page_size"`    // Page size
	Total        int64          `json:"total"`        // Total transactions
	TotalPages   int            `json:"total_pages"`  // Total pages
}

// pagination reads page and page_size with the usual defaults and limits
func pagination(c *gin.Context) (int, int) {
	page := 1      // Default page
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// TransactionHistoryHandler returns transactions where the user is sender or recipient, newest first
func TransactionHistoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page, pageSize := pagination(c)
		offset := (page - 1) * pageSize // Calculate offset
		ctx := c.Request.Context()
		cacheKey := utils.HistoryCachePrefix(user.UID) + "page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached historyPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions, // Cached transactions
				"page":         cached.Page,         // Current page
				"page_size":    cached.PageSize,     // Page size
				"total":        cached.Total,        // Total transactions
				"total_pages":  cached.TotalPages,   // Total pages
				"cached":       true,
			})
			return
		}
		query := db.WithContext(ctx).Model(&domain.Transaction{}).
			Where("sender_uid = ? OR recipient_uid = ?", user.UID, user.UID)
		var total int64 // Total count of transactions
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var txs []domain.Transaction // Slice to hold transactions
		if err := query.Order("timestamp desc").Offset(offset).Limit(pageSize).Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		entries := make([]HistoryEntry, len(txs))
		for i, t := range txs {
			direction := "received"
			if t.SenderUID == user.UID {
				direction = "sent"
			}
			entries[i] = HistoryEntry{Transaction: t, Direction: direction}
		}
		resp := historyPage{
			Transactions: entries,
			Page:         page,
			PageSize:     pageSize,
			Total:        total,
			TotalPages:   (int(total) + pageSize - 1) / pageSize, // Calculate total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache the result for 60 seconds
		c.JSON(http.StatusOK, gin.H{
			"transactions": resp.Transactions, // List of transactions
			"page":         resp.Page,         // Current page
			"page_size":    resp.PageSize,     // Page size
			"total":        resp.Total,        // Total transactions
			"total_pages":  resp.TotalPages,   // Total pages
			"cached":       false,             // Not from cache
		})
	}
}
