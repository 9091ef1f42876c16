package api

import (
	"net/http"                    // HTTP status codes
	"paychat/internal/chain"      // Payment network client
	"paychat/internal/currency"   // Unit conversion
	"paychat/internal/middleware" // Session helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// BalanceHandler reports the native balance of the linked wallet
func BalanceHandler(client chain.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.HasWallet() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please connect your wallet"})
			return
		}
		key, err := chain.ParsePublicKey(user.PublicKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please connect your wallet"})
			return
		}
		unit := currency.SOL // Unit of the amount field
		if q := c.Query("currency"); q != "" {
			if unit, err = currency.ParseCurrency(q); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown currency"})
				return
			}
		}
		lamports, err := client.Balance(c.Request.Context(), key)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"uid":   user.UID,    // Profile ID
				"error": err.Error(), // Error message
			}).Error("Balance lookup failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch balance"})
			return
		}
		amount := currency.LamportsToSOL(lamports)
		if unit == currency.USDC {
			amount = currency.LamportsToUSDC(lamports)
		}
		c.JSON(http.StatusOK, gin.H{
			"publicKey": key.String(),                      // Wallet key
			"lamports":  lamports,                          // Base units
			"sol":       currency.LamportsToSOL(lamports),  // Native units
			"usdc":      currency.LamportsToUSDC(lamports), // Stablecoin equivalent at the fixed rate
			"amount":    amount,                            // Balance in the requested unit
			"currency":  unit,                              // Requested unit
		})
	}
}
