package api

import (
	"net/http"                    // HTTP status codes
	"paychat/internal/intent"     // Supported actions
	"paychat/internal/middleware" // Session helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// Page handlers render view models for the guarded pages. Guards run first, so
// a handler reached without a profile only happens on the login page.

// HomePage lists what the user can ask for
func HomePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"page":    "home",
			"prompt":  "What do you want to do?",
			"user":    user,
			"actions": intent.Actions(),
		})
	}
}

// ContactsPage renders the grouped contact book
func ContactsPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"page":   "contacts",
			"groups": FilterGroups(GroupByAlphabet(user.Contacts), c.Query("search")),
		})
	}
}

// WalletPage asks the user to link a wallet
func WalletPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"page": "wallet",
			"user": user,
		})
	}
}

// LoginPage is shown to signed-out visitors
func LoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "login"})
	}
}
