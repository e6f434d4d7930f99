package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens signs and verifies the bearer tokens pointing at a session slot.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID    string
	SessionID string
	Role      models.Role
}

func (t *Tokens) Issue(userID, sid string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"sid":  sid,
		"role": string(role),
		"exp":  t.now().Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Parse(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	sid, _ := mc["sid"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || sid == "" {
		return Claims{}, fmt.Errorf("%w: missing subject or session", ErrInvalidToken)
	}
	return Claims{UserID: sub, SessionID: sid, Role: models.Role(role)}, nil
}
