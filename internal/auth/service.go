package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/metrics"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/session"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidSignup   = errors.New("invalid signup")
	// ErrTransient wraps failures of the user sheet or the session store.
	ErrTransient = errors.New("temporarily unavailable")
)

// Field names of the users sheet.
const (
	fieldID        = "id"
	fieldName      = "name"
	fieldEmail     = "email"
	fieldPassword  = "password"
	fieldRole      = "role"
	fieldCreatedAt = "createdAt"
)

type SignupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Service logs users in and out against the users sheet.
type Service struct {
	users    repo.Table
	sessions session.Store
	tokens   *Tokens
	logger   *zap.Logger
	metrics  *metrics.Registry
	now      func() time.Time
}

func NewService(users repo.Table, sessions session.Store, tokens *Tokens, logger *zap.Logger, m *metrics.Registry) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger.Named("auth"),
		metrics:  m,
		now:      time.Now,
	}
}

// Login checks the credentials and opens a new session slot. The returned
// token identifies the slot.
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, string, error) {
	user, err := s.findUser(ctx, email)
	if err != nil {
		s.countLogin("unavailable")
		return models.Session{}, "", err
	}
	if user == nil {
		s.countLogin("not_found")
		return models.Session{}, "", ErrUserNotFound
	}
	if !passwordMatches(user.Password, password) {
		s.countLogin("invalid_password")
		return models.Session{}, "", ErrInvalidPassword
	}

	sess := models.Session{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	sid := uuid.NewString()
	if err := s.sessions.Save(ctx, sid, sess); err != nil {
		s.countLogin("unavailable")
		return models.Session{}, "", fmt.Errorf("%w: %v", ErrTransient, err)
	}

	token, err := s.tokens.Issue(user.ID, sid, user.Role)
	if err != nil {
		_ = s.sessions.Clear(ctx, sid)
		return models.Session{}, "", err
	}

	s.countLogin("ok")
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return sess, token, nil
}

// Signup creates a user row with a bcrypt-hashed password.
func (s *Service) Signup(ctx context.Context, req SignupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateSignup(req); err != nil {
		return err
	}

	existing, err := s.findUser(ctx, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}

	row := repo.Row{
		fieldID:        id.String(),
		fieldName:      req.Name,
		fieldEmail:     req.Email,
		fieldPassword:  string(hash),
		fieldRole:      string(req.Role),
		fieldCreatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.users.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}

	s.logger.Info("user signed up", zap.String("user_id", id.String()), zap.String("role", string(req.Role)))
	return nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	return s.sessions.Clear(ctx, sid)
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Session, string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Session{}, "", err
	}

	sess, err := s.sessions.Load(ctx, claims.SessionID)
	if err != nil {
		return models.Session{}, "", err
	}
	return sess, claims.SessionID, nil
}

// findUser returns the first row with an exactly matching email, or nil.
func (s *Service) findUser(ctx context.Context, email string) (*models.User, error) {
	rows, err := s.users.Search(ctx, fieldEmail, email)
	if err != nil {
		s.logger.Warn("user lookup failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	r := rows[0]
	return &models.User{
		ID:        r[fieldID],
		Name:      r[fieldName],
		Email:     r[fieldEmail],
		Password:  r[fieldPassword],
		Role:      models.Role(r[fieldRole]),
		CreatedAt: r[fieldCreatedAt],
	}, nil
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// passwordMatches accepts bcrypt hashes and the clear-text passwords of rows
// written before hashing was introduced.
func passwordMatches(stored, given string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func validateSignup(req SignupRequest) error {
	var problems []string
	if req.Name == "" {
		problems = append(problems, "name is required")
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		problems = append(problems, "email is invalid")
	}
	switch {
	case req.Password == "":
		problems = append(problems, "password is required")
	case len(req.Password) > 72:
		problems = append(problems, "password is too long")
	}
	if !req.Role.Valid() {
		problems = append(problems, "role must be admin or staff")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSignup, strings.Join(problems, ", "))
	}
	return nil
}
