package domain

import (
	"crypto/sha256" // Value fingerprint
	"encoding/hex"  // Fingerprint encoding

	"gorm.io/gorm" // GORM ORM library
)

// Contact Model, a saved reference to another user's payment identity
type Contact struct {
	ID          uint   `gorm:"primaryKey" json:"-"`                                                       // Primary key
	OwnerUID    string `gorm:"index;uniqueIndex:idx_contact_value,priority:1;size:128;not null" json:"-"` // Foreign key to the owning User
	UID         string `gorm:"size:128;not null" json:"uid"`                                              // Contact's user ID
	DisplayName string `json:"displayName"`                                                               // Contact's display name
	Email       string `gorm:"size:255" json:"email"`                                                     // Contact's email
	PhotoURL    string `json:"photoURL"`                                                                  // Contact's avatar URL
	PublicKey   string `gorm:"size:64" json:"publicKey"`                                                  // Contact's wallet public key
	Fingerprint string `gorm:"uniqueIndex:idx_contact_value,priority:2;size:64;not null" json:"-"`        // Hash of the value fields
}

// ValueFingerprint hashes every value field; equal contacts of one owner share it
func (c Contact) ValueFingerprint() string {
	h := sha256.New()
	for _, f := range []string{c.UID, c.DisplayName, c.Email, c.PhotoURL, c.PublicKey} {
		h.Write([]byte(f))
		h.Write([]byte{0}) // Field separator
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BeforeSave keeps the fingerprint in step with the value fields
func (c *Contact) BeforeSave(tx *gorm.DB) error {
	c.Fingerprint = c.ValueFingerprint()
	return nil
}

// Party returns the contact as a transaction party snapshot
func (c Contact) Party() *Party {
	return &Party{
		UID:         c.UID,
		DisplayName: c.DisplayName,
		Email:       c.Email,
		PhotoURL:    c.PhotoURL,
		PublicKey:   c.PublicKey,
	}
}

// ContactFrom builds a contact entry for owner out of another user's profile
func ContactFrom(ownerUID string, u User) Contact {
	return Contact{
		OwnerUID:    ownerUID,
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		PublicKey:   u.PublicKey,
	}
}
