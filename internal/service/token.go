package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"spartanfitness/api/internal/domain"
)

// Token purposes. A confirmation token is never accepted as an access token.
const (
	PurposeAccess            = "access"
	PurposeEmailConfirmation = "email_confirmation"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload issued by TokenManager.
type Claims struct {
	UserID          string        `json:"uid"`
	Roles           []domain.Role `json:"roles,omitempty"`
	CoachID         string        `json:"cid,omitempty"`
	AdministratorID string        `json:"aid,omitempty"`
	Purpose         string        `json:"pur"`
	jwt.RegisteredClaims
}

// Principal converts access-token claims into the caller identity used by services.
func (c *Claims) Principal() (Principal, error) {
	userID, err := domain.ParseID[domain.UserKind](c.UserID)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	p := Principal{UserID: userID, Roles: c.Roles}
	if c.CoachID != "" {
		id, err := domain.ParseID[domain.CoachKind](c.CoachID)
		if err != nil {
			return Principal{}, ErrInvalidToken
		}
		p.CoachID = &id
	}
	if c.AdministratorID != "" {
		id, err := domain.ParseID[domain.AdministratorKind](c.AdministratorID)
		if err != nil {
			return Principal{}, ErrInvalidToken
		}
		p.AdministratorID = &id
	}
	return p, nil
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret          []byte
	issuer          string
	accessTTL       time.Duration
	confirmationTTL time.Duration
}

func NewTokenManager(secret, issuer string, accessTTL, confirmationTTL time.Duration) *TokenManager {
	if secret == "" {
		panic("JWT secret cannot be empty")
	}
	if confirmationTTL <= 0 {
		confirmationTTL = 72 * time.Hour
	}
	return &TokenManager{
		secret:          []byte(secret),
		issuer:          issuer,
		accessTTL:       accessTTL,
		confirmationTTL: confirmationTTL,
	}
}

// IssueAccess signs an access token for the user. coach and admin may be nil.
func (m *TokenManager) IssueAccess(user *domain.User, coach *domain.Coach, admin *domain.Administrator) (string, error) {
	claims := &Claims{
		UserID:  user.ID.String(),
		Roles:   user.Roles,
		Purpose: PurposeAccess,
	}
	if coach != nil {
		claims.CoachID = coach.ID.String()
	}
	if admin != nil {
		claims.AdministratorID = admin.ID.String()
	}
	return m.sign(claims, m.accessTTL)
}

// IssueEmailConfirmation signs a token proving control of the user's mailbox.
func (m *TokenManager) IssueEmailConfirmation(userID domain.UserID) (string, error) {
	return m.sign(&Claims{UserID: userID.String(), Purpose: PurposeEmailConfirmation}, m.confirmationTTL)
}

func (m *TokenManager) sign(claims *Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    m.issuer,
		Subject:   claims.UserID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and purpose of a token.
func (m *TokenManager) Parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	if m.issuer != "" && !claims.VerifyIssuer(m.issuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
