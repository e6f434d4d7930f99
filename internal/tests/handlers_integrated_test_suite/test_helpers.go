package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/auth"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/db"
	handler "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/handlers"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/http/router"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/inventory"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/session"
)

var (
	token    string
	r        http.Handler
	state    *inventory.State
	database *sql.DB
	parts    *repo.PostgresTable
	users    *repo.PostgresTable
)

// setup connects to DATABASE_URL. It returns false when no database is configured.
func setup() (bool, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return false, nil
	}

	var err error
	database, err = db.Connect(dbURL)
	if err != nil {
		return false, fmt.Errorf("could not connect to database: %w", err)
	}

	ctx := context.Background()
	if err := repo.EnsureSchema(ctx, database); err != nil {
		return false, err
	}
	runs := repo.NewPostgresSyncRunRepository(database)
	if err := runs.EnsureSchema(ctx); err != nil {
		return false, err
	}

	users = repo.NewPostgresTable(database, repo.ResourceUsers)
	parts = repo.NewPostgresTable(database, repo.ResourceProductParts)
	clearAll()
	createAdminIfNotExists("secret")

	logger := zap.NewNop()
	entries := catalog.All()
	syncer := inventory.NewSynchronizer(parts, inventory.WithHistory(runs))
	state = inventory.NewState(inventory.NewLoader(parts, entries, logger, nil), syncer, entries, logger)
	state.Load(ctx)

	authService := auth.NewService(users, session.NewMemoryStore(), auth.NewTokens("it-secret", time.Hour), logger, nil)
	r = router.NewRouter(router.Options{
		Server: handler.NewServer(state, authService, runs, logger),
		Logger: logger,
	})

	token, err = generateToken(r, "admin@x.com", "secret")
	return true, err
}

func teardown() {
	if state != nil {
		state.Close()
	}
	if database != nil {
		clearAll()
		database.Close()
	}
}

func clearAll() {
	_, _ = database.Exec(`DELETE FROM sheet_rows`)
	_, _ = database.Exec(`DELETE FROM sync_runs`)
}

func clearAllParts() {
	state.Wait()
	_, _ = database.Exec(`DELETE FROM sheet_rows WHERE resource = $1`, repo.ResourceProductParts)
	state.Load(context.Background())
}

func createAdminIfNotExists(password string) {
	rows, err := users.Search(context.Background(), "email", "admin@x.com")
	if err != nil {
		fmt.Println("error checking if admin exists", err)
	}
	if len(rows) > 0 {
		return
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_ = users.Create(context.Background(), repo.Row{
		"id":       "1",
		"name":     "Admin",
		"email":    "admin@x.com",
		"password": string(hash),
		"role":     "admin",
	})
}

func generateToken(r http.Handler, email, password string) (string, error) {
	body, _ := json.Marshal(handler.LoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}
