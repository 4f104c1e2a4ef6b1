package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitticket/internal/auth"
	"github.com/mmynk/splitticket/internal/calculator"
	"github.com/mmynk/splitticket/internal/metrics"
	"github.com/mmynk/splitticket/internal/middleware"
	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/productlookup"
	"github.com/mmynk/splitticket/internal/storage/sqlite"
	"github.com/mmynk/splitticket/pkg/api"
	"github.com/mmynk/splitticket/pkg/api/apiconnect"
)

var d = decimal.RequireFromString

// fakeLookup serves a fixed catalogue.
type fakeLookup struct {
	products map[string]*productlookup.Product
	calls    atomic.Int32
}

func (f *fakeLookup) Lookup(_ context.Context, barcode string) (*productlookup.Product, error) {
	f.calls.Add(1)
	if p, ok := f.products[barcode]; ok {
		return p, nil
	}
	return nil, productlookup.ErrProductNotFound
}

type testEnv struct {
	auth     *apiconnect.AuthServiceClient
	split    *apiconnect.SplitServiceClient
	products *apiconnect.ProductServiceClient
	store    *sqlite.SQLiteStore
	lookup   *fakeLookup
	metrics  *metrics.Metrics
}

func defaultSettings() models.Settings {
	return models.Settings{
		PartyA: calculator.VoucherSpec{UnitValue: d("7.50"), MaxUnits: 6},
		PartyB: calculator.VoucherSpec{UnitValue: d("7.00"), MaxUnits: 6},
	}
}

// setupTestServer wires every service behind the real auth and logging
// interceptors, backed by a temporary SQLite database.
func setupTestServer(t *testing.T, opts calculator.Options) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	m, err := metrics.New("splitticket", prometheus.NewRegistry())
	require.NoError(t, err)

	lookup := &fakeLookup{products: map[string]*productlookup.Product{
		"8001234567890": {Barcode: "8001234567890", Name: "Latte intero", Brands: "Granarolo"},
	}}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(nil),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, nil), interceptors))
	mux.Handle(apiconnect.NewSplitServiceHandler(NewSplitService(store, defaultSettings(), opts, m), interceptors))
	mux.Handle(apiconnect.NewProductServiceHandler(NewProductService(store, lookup, m), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		split:    apiconnect.NewSplitServiceClient(http.DefaultClient, server.URL),
		products: apiconnect.NewProductServiceClient(http.DefaultClient, server.URL),
		store:    store,
		lookup:   lookup,
		metrics:  m,
	}
}

// register creates an account and returns its bearer token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Household",
		Password:    "correct horse",
	}))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Msg.Token)
	return resp.Msg.Token
}

func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}
