package api

import (
	"paychat/internal/chain"      // Payment network client
	"paychat/internal/draft"      // Draft builder
	"paychat/internal/events"     // Events
	"paychat/internal/middleware" // Custom middleware
	"paychat/internal/notify"     // Invoice mail
	"time"                        // Token lifetime

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/redis/go-redis/v9"                            // Redis client
	"gorm.io/gorm"                                            // GORM ORM library
)

// Server bundles the dependencies of the HTTP surface
type Server struct {
	DB               *gorm.DB         // Profiles, contacts, transactions
	Redis            *redis.Client    // Cache and profile events
	Chain            chain.Client     // Payment network
	Events           events.Publisher // Domain events
	Mailer           notify.Mailer    // Invoice notifications
	Drafts           *draft.Builder   // Draft builder
	JWTSecret        string           // Session signing key
	TokenTTL         time.Duration    // Session lifetime
	ConfirmTransfers bool             // Check signatures before recording
	SecureCookies    bool             // Set the Secure cookie flag
	TrustedProxies   []string         // Proxies allowed to set client IP headers
}

// NewRouter wires pages and API routes
func NewRouter(s Server) (*gin.Engine, error) {
	if s.Events == nil {
		s.Events = events.Nop{}
	}
	if s.Mailer == nil {
		s.Mailer = notify.Nop{}
	}
	if s.Drafts == nil {
		s.Drafts = draft.New()
	}
	bus := events.NewProfileBus(s.Redis)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if err := r.SetTrustedProxies(s.TrustedProxies); err != nil {
		return nil, err
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Pages, guarded like the original redirects
	guard := func(opts middleware.RedirectOptions) gin.HandlerFunc {
		return middleware.Redirects(s.DB, s.Redis, s.JWTSecret, opts)
	}
	walletRequired := middleware.RedirectOptions{OnAuthFailure: middleware.ToLogin, OnAuthSuccess: middleware.RequireWallet}
	r.GET("/", guard(walletRequired), HomePage())
	r.GET("/contacts", guard(walletRequired), ContactsPage())
	r.GET("/wallet", guard(middleware.RedirectOptions{OnAuthFailure: middleware.ToLogin, OnAuthSuccess: middleware.SkipWallet}), WalletPage())
	r.GET("/login", guard(middleware.RedirectOptions{OnAuthSuccess: middleware.ToHome}), LoginPage())

	// Auth routes
	r.POST("/api/users", RegisterHandler(s.DB))
	r.POST("/api/session", LoginHandler(s.DB, s.JWTSecret, s.TokenTTL, s.SecureCookies))
	r.DELETE("/api/session", LogoutHandler(s.SecureCookies))

	// API routes (protected by the session)
	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.SessionMiddleware(s.DB, s.Redis, s.JWTSecret))
	apiGroup.GET("/profile", GetProfileHandler())
	apiGroup.GET("/profile/events", ProfileEventsHandler(bus))
	apiGroup.PUT("/wallet", LinkWalletHandler(s.DB, s.Redis, bus))
	apiGroup.GET("/contacts", ListContactsHandler())
	apiGroup.POST("/contacts", AddContactHandler(s.DB, s.Redis, bus))
	apiGroup.POST("/intent", IntentHandler(s.Drafts))
	apiGroup.POST("/transfers/prepare", PrepareTransferHandler(s.Chain))
	apiGroup.POST("/transfers", SubmitTransferHandler(s.DB, s.Redis, s.Chain, s.ConfirmTransfers, s.Events))
	apiGroup.POST("/invoices", CreateInvoiceHandler(s.DB, s.Redis, s.Events, s.Mailer))
	apiGroup.GET("/transactions", TransactionHistoryHandler(s.DB, s.Redis))
	apiGroup.GET("/balance", BalanceHandler(s.Chain))
	return r, nil
}
