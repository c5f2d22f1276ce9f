package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use, expiring secret mailed to a user.
type PasswordResetToken struct {
	ID          PasswordResetTokenID `bson:"_id" json:"id"`
	Value       string               `bson:"value" json:"-"`
	UserID      UserID               `bson:"userId" json:"userId"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	ExpiresAt   time.Time            `bson:"expiresAt" json:"expiresAt"`
	Used        bool                 `bson:"used" json:"used"`
	Invalidated bool                 `bson:"invalidated" json:"invalidated"`
}

func NewPasswordResetToken(userID UserID, ttl time.Duration) *PasswordResetToken {
	now := time.Now().UTC()
	return &PasswordResetToken{
		ID:        NewID[PasswordResetTokenKind](),
		Value:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Usable reports whether the token may still be redeemed at now.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && !t.Invalidated && now.Before(t.ExpiresAt)
}

func (t *PasswordResetToken) Use()        { t.Used = true }
func (t *PasswordResetToken) Invalidate() { t.Invalidated = true }
