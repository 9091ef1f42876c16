package domain

import "gorm.io/gorm"

// Status of a transaction
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Type of a transaction
type Type string

const (
	TypeDirect    Type = "direct"
	TypeRequest   Type = "request"
	TypeBillSplit Type = "bill_split"
)

// Party is a contact-shaped snapshot stored on a transaction.
// Later changes to the contact never rewrite it.
type Party struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	PublicKey   string `json:"publicKey"`
}

// Transaction Model, also used for drafts before they are persisted
type Transaction struct {
	ID           string  `gorm:"primaryKey;size:128" json:"id,omitempty"`           // Network signature or generated ID
	Amount       float64 `gorm:"not null" json:"amount"`                            // Amount in stablecoin units
	Sender       *Party  `gorm:"serializer:json;type:text" json:"sender,omitempty"`    // Sender snapshot
	Recipient    *Party  `gorm:"serializer:json;type:text" json:"recipient,omitempty"` // Recipient snapshot
	SenderUID    string  `gorm:"index;size:128" json:"-"`                           // Denormalized for history queries
	RecipientUID string  `gorm:"index;size:128" json:"-"`                           // Denormalized for history queries
	Timestamp    int64   `gorm:"index" json:"timestamp"`                            // Milliseconds, 0 on drafts
	Status       Status  `gorm:"size:16;not null" json:"status"`                    // pending, completed, failed
	Type         Type    `gorm:"size:16;not null" json:"type"`                      // direct, request, bill_split
}

// BeforeSave keeps the denormalized party columns in step with the snapshots
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.SenderUID, t.RecipientUID = "", ""
	if t.Sender != nil {
		t.SenderUID = t.Sender.UID
	}
	if t.Recipient != nil {
		t.RecipientUID = t.Recipient.UID
	}
	return nil
}
