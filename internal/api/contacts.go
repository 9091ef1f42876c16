package api

import (
	"errors"                      // Error inspection
	"net/http"                    // HTTP status codes
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/events"     // Profile change events
	"paychat/internal/middleware" // Session helpers
	"paychat/internal/utils"      // Utility functions
	"strings"                     // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
	"gorm.io/gorm/clause"          // Conflict handling
)

// AddContactRequest names the user to add by email
type AddContactRequest struct {
	Email string `json:"email"` // Contact's email
}

// ContactGroup is one letter of the contact book
type ContactGroup struct {
	Letter   string           `json:"letter"`   // Upper case initial
	Contacts []domain.Contact `json:"contacts"` // Contacts under this letter
}

// GroupByAlphabet groups contacts by the first letter of their display name.
// Only A-Z are grouped; letters without contacts are left out.
func GroupByAlphabet(contacts []domain.Contact) []ContactGroup {
	var groups []ContactGroup
	for letter := 'A'; letter <= 'Z'; letter++ {
		var matching []domain.Contact
		for _, c := range contacts {
			if c.DisplayName != "" && strings.ToUpper(c.DisplayName[:1]) == string(letter) {
				matching = append(matching, c)
			}
		}
		if len(matching) > 0 {
			groups = append(groups, ContactGroup{Letter: string(letter), Contacts: matching})
		}
	}
	return groups
}

// FilterGroups keeps the group whose letter matches the first letter of search
func FilterGroups(groups []ContactGroup, search string) []ContactGroup {
	search = strings.TrimSpace(search)
	if search == "" {
		return groups
	}
	initial := strings.ToUpper(search[:1])
	var out []ContactGroup
	for _, g := range groups {
		if g.Letter == initial {
			out = append(out, g)
		}
	}
	return out
}

// ListContactsHandler returns the contact book grouped by initial, filtered by ?search=
func ListContactsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		groups := FilterGroups(GroupByAlphabet(user.Contacts), c.Query("search"))
		c.JSON(http.StatusOK, gin.H{"groups": groups, "total": len(user.Contacts)})
	}
}

// AddContactHandler adds another user to the contact list; adding the same contact twice is a no-op
func AddContactHandler(db *gorm.DB, rdb *redis.Client, bus *events.ProfileBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddContactRequest
		_ = c.ShouldBindJSON(&req) // Empty body is reported below
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter an email address"})
			return
		}
		if email == strings.ToLower(user.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add yourself as a contact"})
			return
		}
		ctx := c.Request.Context()
		var other domain.User // Look the contact up by email
		err := db.WithContext(ctx).Where("email = ?", email).First(&other).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add contact"})
			return
		}
		contact := domain.ContactFrom(user.UID, other)
		added, err := addContact(db.WithContext(ctx), contact)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"uid":         user.UID,    // Owner
				"contact_uid": other.UID,   // Contact
				"error":       err.Error(), // Error message
			}).Error("Failed to add contact")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add contact"})
			return
		}
		if added {
			logrus.WithFields(logrus.Fields{
				"uid":         user.UID,  // Owner
				"contact_uid": other.UID, // Contact
			}).Info("Contact added")
			_ = utils.DeleteCache(ctx, rdb, utils.ProfileCacheKey(user.UID)) // Invalidate profile cache
			if err := bus.Publish(ctx, user.UID, events.ContactAdded); err != nil {
				logrus.WithError(err).Warn("Failed to publish profile event")
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Contact added!", "contact": contact, "added": added})
	}
}

// addContact appends contact unless an identical entry exists, like a set union.
// The unique value index makes concurrent identical adds collapse into one row.
func addContact(db *gorm.DB, contact domain.Contact) (bool, error) {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&contact)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
