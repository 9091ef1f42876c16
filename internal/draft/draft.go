// Package draft turns a classified command into an editable transaction draft.
package draft

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"paychat/internal/domain"
	"paychat/internal/intent"
)

var (
	amountPattern    = regexp.MustCompile(`\d+`)
	recipientPattern = regexp.MustCompile(`to (\w+)`)
)

// Builder builds drafts. Now stamps invoice drafts.
type Builder struct {
	Now func() time.Time
}

// New returns a Builder on the wall clock.
func New() *Builder {
	return &Builder{Now: time.Now}
}

// Build returns the draft for action, or false when the action has no
// classifier-driven draft (addContact, checkBalance, splitBill).
func (b *Builder) Build(action intent.Action, raw string, user *domain.User) (*domain.Transaction, bool) {
	if user == nil {
		return nil, false
	}
	switch action {
	case intent.Transfer:
		return b.transfer(raw, user), true
	case intent.CreateInvoice:
		return b.invoice(user), true
	default:
		return nil, false
	}
}

func (b *Builder) transfer(raw string, user *domain.User) *domain.Transaction {
	t := &domain.Transaction{
		Amount: Amount(raw),
		Sender: user.Party(),
		Status: domain.StatusPending,
		Type:   domain.TypeDirect,
	}
	if name := RecipientName(raw); name != "" {
		if c := MatchContact(user.Contacts, name); c != nil {
			t.Recipient = c.Party()
		}
	}
	return t
}

func (b *Builder) invoice(user *domain.User) *domain.Transaction {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return &domain.Transaction{
		Recipient: user.Party(),
		Status:    domain.StatusPending,
		Type:      domain.TypeRequest,
		Timestamp: now().UnixMilli(),
	}
}

// Amount returns the first run of digits in raw, or 0.
func Amount(raw string) float64 {
	digits := amountPattern.FindString(raw)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return v
}

// RecipientName returns the word of the last "to <word>" in raw.
func RecipientName(raw string) string {
	matches := recipientPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// MatchContact returns the first contact whose display name or email local
// part contains name, ignoring case.
func MatchContact(contacts []domain.Contact, name string) *domain.Contact {
	needle := strings.ToLower(name)
	for i := range contacts {
		c := &contacts[i]
		if strings.Contains(strings.ToLower(c.DisplayName), needle) {
			return c
		}
		local, _, _ := strings.Cut(c.Email, "@")
		if local != "" && strings.Contains(strings.ToLower(local), needle) {
			return c
		}
	}
	return nil
}
