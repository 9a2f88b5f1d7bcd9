package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/handler"
	"github.com/sakif/pet-adoption/internal/repository/sqldb"
	"github.com/sakif/pet-adoption/internal/repository/sqlite"
	"github.com/sakif/pet-adoption/internal/service"
)

// fixture wires real services over an in-memory SQLite store, so handler
// tests cover the full request → service → SQL path without a network.
type fixture struct {
	db        *sqldb.DB
	tokens    *auth.TokenService
	auth      *handler.AuthHandler
	pets      *handler.PetHandler
	favorites *handler.FavoriteHandler
	adoptions *handler.AdoptionHandler
	health    *handler.HealthHandler
}

func newFixture(t *testing.T, policy service.AdoptionPolicy) *fixture {
	t.Helper()

	db, err := sqlite.New(context.Background(), ":memory:", sqlite.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	authSvc := service.NewAuthService(db, tokens, auth.NewPasswordServiceWithCost(bcrypt.MinCost), logger)
	petSvc := service.NewPetService(db, logger)
	adoptionSvc := service.NewAdoptionService(db, db, policy, logger)

	return &fixture{
		db:        db,
		tokens:    tokens,
		auth:      handler.NewAuthHandler(authSvc, tokens.TTL(), false, logger),
		pets:      handler.NewPetHandler(petSvc, adoptionSvc, logger),
		favorites: handler.NewFavoriteHandler(service.NewFavoriteService(db, logger), logger),
		adoptions: handler.NewAdoptionHandler(adoptionSvc, logger),
		health:    handler.NewHealthHandler(db, logger),
	}
}

// request builds a request the way the router would hand it over: URL
// params in the chi route context and, for userID > 0, the id that
// RequireAuth would have stored.
func request(method, target, body string, userID int64, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID > 0 {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), "body: %s", rr.Body.String())
	return v
}

// signup registers a user through the handler and returns its id.
func (f *fixture) signup(t *testing.T, email string) int64 {
	t.Helper()
	rr := serve(f.auth.HandleSignup, request(http.MethodPost, "/api/signup",
		`{"email":"`+email+`","password":"password123"}`, 0, nil))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[struct{ ID int64 }](t, rr).ID
}

func (f *fixture) createPet(t *testing.T, owner int64, name string) int64 {
	t.Helper()
	rr := serve(f.pets.HandleCreate, request(http.MethodPost, "/api/pets", `{"name":"`+name+`"}`, owner, nil))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[struct{ ID int64 }](t, rr).ID
}
