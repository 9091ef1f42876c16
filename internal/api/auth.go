package api

import (
	"errors"                      // Error inspection
	"net/http"                    // HTTP status codes
	"net/mail"                    // Email address parsing
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/middleware" // Session cookie name
	"paychat/internal/utils"      // Utility functions
	"strings"                     // String manipulation
	"time"                        // Cookie lifetime

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Profile IDs
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest creates an account
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`    // Email must be provided
	Password    string `json:"password" binding:"required"` // Password must be provided
	DisplayName string `json:"displayName"`                 // Optional display name
	PhotoURL    string `json:"photoURL"`                    // Optional avatar URL
}

// LoginRequest signs an account in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is returned on sign-in; the token is also set as the authToken cookie
type AuthResponse struct {
	Token     string `json:"token"`     // JWT token
	ExpiresAt int64  `json:"expiresAt"` // Expiry in milliseconds
}

// isValidEmail checks the address parses and carries no display name
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// isValidPassword checks the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// newProfile is the document written on first sign-up
func newProfile(req RegisterRequest, email, hash string) domain.User {
	displayName := req.DisplayName
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@") // Fall back to the email local part
	}
	return domain.User{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PhotoURL:     req.PhotoURL,
		CreatedAt:    time.Now().UnixMilli(),
		PublicKey:    "", // Linked later on the wallet page
		PasswordHash: hash,
		Contacts:     []domain.Contact{},
	}
}

// RegisterHandler creates a profile with an empty wallet key and contact list
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email)) // Emails are unique case-insensitively
		if !isValidEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		var existing int64 // Reject taken addresses before insert
		if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		user := newProfile(req, email, string(hash))
		if err := db.Create(&user).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"email": email,       // Requested email
				"error": err.Error(), // Error message
			}).Error("Failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		logrus.WithField("uid", user.UID).Info("User registered") // Log registration
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// LoginHandler verifies credentials and sets the authToken cookie
func LoginHandler(db *gorm.DB, jwtSecret string, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign in failed"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, expires, err := utils.GenerateJWT(user.UID, jwtSecret, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Cookie expires with the token
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AuthCookie, token, int(time.Until(expires).Seconds()), "/", "", secure, true)
		c.JSON(http.StatusOK, AuthResponse{Token: token, ExpiresAt: expires.UnixMilli()})
	}
}

// LogoutHandler clears the authToken cookie
func LogoutHandler(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.AuthCookie, "", -1, "/", "", secure, true) // Expire immediately
		c.Status(http.StatusNoContent)
	}
}
