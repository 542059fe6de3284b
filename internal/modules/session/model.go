package session

import (
	"errors"
	"time"
)

// ErrShopNotFound is returned when a shop has never installed the app.
var ErrShopNotFound = errors.New("shop not found")

// Session is the stored credential for one onboarded shop.
type Session struct {
	ID          string     `json:"id"`
	Shop        string     `json:"shop"`
	AccessToken string     `json:"-"`
	Scopes      string     `json:"scopes"`
	IsOnline    bool       `json:"is_online"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
