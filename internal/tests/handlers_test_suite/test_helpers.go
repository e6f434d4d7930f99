package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/auth"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	handler "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/handlers"
	rl "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/rate_limiter"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/http/router"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/inventory"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/metrics"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/session"
)

var (
	token      string
	staffToken string

	r          http.Handler
	state      *inventory.State
	partsTable *repo.InMemoryTable
	usersTable *repo.InMemoryTable
	history    *repo.InMemorySyncRunRepository
	limiter    *rl.Limiter
)

func init() {
	setupTestRepos()

	var err error
	token, err = generateToken(r, "admin@x.com", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	staffToken, err = generateToken(r, "staff@x.com", "p1")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	usersTable = repo.NewInMemoryTable(
		repo.Row{"id": "1", "name": "Admin", "email": "admin@x.com", "password": string(hash), "role": "admin"},
		// rows created by the legacy app hold clear-text passwords
		repo.Row{"id": "2", "name": "Staff", "email": "staff@x.com", "password": "p1", "role": "staff"},
	)
	partsTable = repo.NewInMemoryTable()
	history = repo.NewInMemorySyncRunRepository()

	logger := zap.NewNop()
	reg := metrics.NewRegistry()
	entries := catalog.All()

	syncer := inventory.NewSynchronizer(partsTable,
		inventory.WithHistory(history),
		inventory.WithMetrics(reg),
		inventory.WithRetry(inventory.RetryPolicy{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}),
	)
	state = inventory.NewState(inventory.NewLoader(partsTable, entries, logger, reg), syncer, entries, logger)

	authService := auth.NewService(usersTable, session.NewMemoryStore(), auth.NewTokens("test-secret", time.Hour), logger, reg)
	// generous limits so the suite itself is never throttled
	limiter = rl.New(1000, 1000)

	r = router.NewRouter(router.Options{
		Server:  handler.NewServer(state, authService, history, logger),
		Limiter: limiter,
		Metrics: reg,
		Logger:  logger,
	})
}

// resetParts empties the remote sheet and reloads local state from it.
func resetParts() {
	state.Wait()
	partsTable.Clear()
	history.Clear()
	state.Load(context.Background())
}

func generateToken(r http.Handler, email, password string) (string, error) {
	w := login(r, email, password)
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with %d: %s", w.Code, w.Body.String())
	}

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func login(r http.Handler, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handler.LoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(method, path, bearer string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func putParts(bearer string, productID int, parts []handler.PartRequest) *httptest.ResponseRecorder {
	return doJSON(http.MethodPut, fmt.Sprintf("/products/%d/parts", productID), bearer, handler.UpdatePartsRequest{Parts: parts})
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func addRemotePart(id, product, name, partNo, qty, isNew string) {
	_ = partsTable.Create(context.Background(), repo.Row{
		"id":          id,
		"productName": product,
		"partName":    name,
		"partNo":      partNo,
		"quantity":    qty,
		"vendor":      "ACME",
		"isNew":       isNew,
	})
}
