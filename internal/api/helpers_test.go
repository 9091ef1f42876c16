package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paychat/internal/chain"
	"paychat/internal/currency"
	"paychat/internal/db"
	"paychat/internal/domain"
	"paychat/internal/utils"
)

const testSecret = "test-secret"

type fakeChain struct {
	blockhash solana.Hash
	balance   uint64
	sent      map[solana.Signature]*solana.Transaction
	verifyErr error
	err       error
}

func (f *fakeChain) LatestBlockhash(context.Context) (solana.Hash, error) {
	return f.blockhash, f.err
}

func (f *fakeChain) Balance(context.Context, solana.PublicKey) (uint64, error) {
	return f.balance, f.err
}

func (f *fakeChain) VerifyTransfer(_ context.Context, sig solana.Signature, want chain.Transfer) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	tx, ok := f.sent[sig]
	if !ok {
		return chain.ErrNotConfirmed
	}
	return chain.MatchTransfer(tx, want)
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

type recordingMailer struct {
	invoices []*domain.Transaction
	err      error
}

func (m *recordingMailer) InvoiceCreated(_ context.Context, inv *domain.Transaction) error {
	m.invoices = append(m.invoices, inv)
	return m.err
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	chain  *fakeChain
	pub    *recordingPublisher
	mailer *recordingMailer
	router *gin.Engine
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)

	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		t:      t,
		db:     gdb,
		mr:     mr,
		rdb:    rdb,
		chain:  &fakeChain{blockhash: solana.Hash{9, 9, 9}, sent: map[solana.Signature]*solana.Transaction{}},
		pub:    &recordingPublisher{},
		mailer: &recordingMailer{},
	}
	env.router, err = NewRouter(Server{
		DB:               gdb,
		Redis:            rdb,
		Chain:            env.chain,
		Events:           env.pub,
		Mailer:           env.mailer,
		JWTSecret:        testSecret,
		TokenTTL:         time.Hour,
		ConfirmTransfers: true,
	})
	require.NoError(t, err)
	return env
}

func walletKey() string {
	return solana.NewWallet().PublicKey().String()
}

// createUser stores a profile with password "password123"
func (e *testEnv) createUser(uid, email, name, publicKey string) *domain.User {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(e.t, err)
	u := &domain.User{
		UID:          uid,
		Email:        email,
		DisplayName:  name,
		PublicKey:    publicKey,
		PasswordHash: string(hash),
	}
	require.NoError(e.t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) addContact(owner, other *domain.User) {
	e.t.Helper()
	c := domain.ContactFrom(owner.UID, *other)
	require.NoError(e.t, e.db.Create(&c).Error)
	require.NoError(e.t, utils.DeleteCache(context.Background(), e.rdb, utils.ProfileCacheKey(owner.UID)))
}

// send records a confirmed transfer of lamports between two wallets under sig
func (e *testEnv) send(sig solana.Signature, from, to string, lamports uint64) {
	e.t.Helper()
	tx, err := chain.BuildTransfer(solana.MustPublicKeyFromBase58(from), solana.MustPublicKeyFromBase58(to), lamports, e.chain.blockhash)
	require.NoError(e.t, err)
	e.chain.sent[sig] = tx
}

// lamports converts a stablecoin amount that is known to fit
func lamports(t *testing.T, usdc float64) uint64 {
	t.Helper()
	v, err := currency.ToLamports(usdc)
	require.NoError(t, err)
	return v
}

func (e *testEnv) token(uid string) string {
	e.t.Helper()
	tok, _, err := utils.GenerateJWT(uid, testSecret, time.Hour)
	require.NoError(e.t, err)
	return tok
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}
