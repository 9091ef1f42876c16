package api

import (
	"net/http"                    // HTTP status codes
	"paychat/internal/currency"   // Lamport conversion
	"paychat/internal/domain"     // Importing domain models
	"paychat/internal/draft"      // Draft builder
	"paychat/internal/intent"     // Intent classifier
	"paychat/internal/middleware" // Session helpers

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto registration
)

var intentsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "paychat_intents_classified_total",
	Help: "Commands classified, by resulting action.",
}, []string{"action"})

// IntentRequest carries the text typed by the user
type IntentRequest struct {
	Input  string        `json:"input"`            // Raw command
	Action intent.Action `json:"action,omitempty"` // Action picked from the menu, skips classification
}

// IntentResponse is the recognized action and its draft. A nil Action tells the client to clear its selection.
type IntentResponse struct {
	Action   *intent.Action      `json:"action"`             // Recognized action or null
	Draft    *domain.Transaction `json:"draft,omitempty"`    // Draft for transfer and createInvoice
	Lamports uint64              `json:"lamports,omitempty"` // Transfer amount in base units
}

// IntentHandler classifies a command and builds its draft
func IntentHandler(builder *draft.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req IntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		action, found := req.Action, req.Action != ""
		if found && !action.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
			return
		}
		if !found {
			action, found = intent.Classify(req.Input)
		}
		if !found {
			intentsClassified.WithLabelValues("none").Inc()
			c.JSON(http.StatusOK, IntentResponse{})
			return
		}
		intentsClassified.WithLabelValues(string(action)).Inc()
		resp := IntentResponse{Action: &action}
		if d, ok := builder.Build(action, req.Input, user); ok {
			resp.Draft = d
			if d.Type == domain.TypeDirect {
				lamports, err := currency.ToLamports(d.Amount) // What the wallet will move
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Amount is too large"})
					return
				}
				resp.Lamports = lamports
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
