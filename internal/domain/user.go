package domain

// User Model, the authenticated profile
type User struct {
	UID           string    `gorm:"primaryKey;size:128" json:"uid"`                        // Primary key, identity provider subject
	Email         string    `gorm:"uniqueIndex;size:255;not null" json:"email"`            // Unique email
	EmailVerified bool      `json:"emailVerified"`                                         // Email verified flag
	DisplayName   string    `json:"displayName"`                                           // Display name
	PhotoURL      string    `json:"photoURL"`                                              // Avatar URL
	CreatedAt     int64     `gorm:"autoCreateTime:milli" json:"createdAt"`                 // Creation timestamp in milliseconds
	PublicKey     string    `gorm:"size:64" json:"publicKey"`                              // Wallet public key, empty until linked
	PasswordHash  string    `gorm:"not null" json:"-"`                                     // Hashed password
	Contacts      []Contact `gorm:"foreignKey:OwnerUID;references:UID" json:"contacts"`    // Embedded contact list
}

// HasWallet reports whether the user linked a wallet key
func (u *User) HasWallet() bool {
	return u.PublicKey != ""
}

// Party returns a point-in-time snapshot of the user's identity fields
func (u *User) Party() *Party {
	return &Party{
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		PublicKey:   u.PublicKey,
	}
}

// FindContact returns the contact with the given uid, or nil
func (u *User) FindContact(uid string) *Contact {
	for i := range u.Contacts {
		if u.Contacts[i].UID == uid {
			return &u.Contacts[i]
		}
	}
	return nil
}
