package services

import (
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/utils"
)

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Customer  *entity.Customer `json:"customer,omitempty"`
	Staff     *entity.Staff    `json:"staff,omitempty"`
}

// SessionIssuer turns an authenticated identity into a bearer token.
type SessionIssuer interface {
	IssueCustomer(c *entity.Customer) (string, time.Time, error)
	IssueStaff(s *entity.Staff) (string, time.Time, error)
}

// TokenIssuer signs JWT sessions.
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{Secret: secret, TTL: ttl, Now: time.Now}
}

func (t *TokenIssuer) IssueCustomer(c *entity.Customer) (string, time.Time, error) {
	return utils.GenerateToken(utils.Claims{
		UserID: c.ID,
		Role:   utils.RoleCustomer,
		Phone:  c.Phone,
	}, t.Secret, t.Now(), t.TTL)
}

func (t *TokenIssuer) IssueStaff(s *entity.Staff) (string, time.Time, error) {
	return utils.GenerateToken(utils.Claims{
		UserID:       s.ID,
		Role:         s.Role,
		RestaurantID: s.RestaurantID,
	}, t.Secret, t.Now(), t.TTL)
}
