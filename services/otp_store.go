package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// CustomerDirectory resolves a verified phone to a durable customer.
type CustomerDirectory interface {
	FindOrCreateByPhone(ctx context.Context, phone, name string) (*entity.Customer, error)
}

// CodeSender delivers a code out of band (SMS gateway, queue, log).
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
	// Debug returns the code to the caller; never enable in production.
	Debug    bool
	HashCost int
	Now      func() time.Time
}

func (c *OTPConfig) withDefaults() {
	if c.TTL <= 0 {
		c.TTL = 10 * time.Minute
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.HashCost == 0 {
		c.HashCost = bcrypt.DefaultCost
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// CodeIssued is the result of RequestCode. Code is empty unless debug mode is on.
type CodeIssued struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
	Code      string    `json:"code,omitempty"`
}

type otpEntry struct {
	hash      []byte
	createdAt time.Time
	expiresAt time.Time
	attempts  int
}

// OTPStore keeps at most one live code per phone number. Request and verify
// for the same phone run one at a time; different phones never wait on each other.
type OTPStore struct {
	cfg       OTPConfig
	customers CustomerDirectory
	sender    CodeSender
	sessions  SessionIssuer
	log       *zap.Logger

	phones *KeyedMutex

	mu      sync.Mutex
	entries map[string]*otpEntry
}

func NewOTPStore(cfg OTPConfig, customers CustomerDirectory, sender CodeSender, sessions SessionIssuer, log *zap.Logger) *OTPStore {
	cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &OTPStore{
		cfg:       cfg,
		customers: customers,
		sender:    sender,
		sessions:  sessions,
		log:       log.Named("otp"),
		phones:    NewKeyedMutex(),
		entries:   make(map[string]*otpEntry),
	}
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// RequestCode issues a fresh code for phone, replacing any unconsumed one.
func (s *OTPStore) RequestCode(ctx context.Context, phone string) (*CodeIssued, error) {
	phone = normalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		otpRequestsTotal.WithLabelValues("invalid_phone").Inc()
		return nil, ErrInvalidPhone
	}

	code, err := randomCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	unlock := s.phones.Lock(phone)
	now := s.cfg.Now()
	e := &otpEntry{hash: hash, createdAt: now, expiresAt: now.Add(s.cfg.TTL)}
	s.put(phone, e)
	unlock()

	otpRequestsTotal.WithLabelValues("issued").Inc()

	if s.sender != nil {
		if err := s.sender.SendCode(ctx, phone, code); err != nil {
			s.log.Warn("code delivery failed", zap.String("phone", maskPhone(phone)), zap.Error(err))
		}
	}

	out := &CodeIssued{Phone: phone, ExpiresAt: e.expiresAt}
	if s.cfg.Debug {
		out.Code = code
	}
	return out, nil
}

// VerifyCode consumes the code for phone and opens a session for its customer.
// name, when non-empty, refreshes the customer's display name.
func (s *OTPStore) VerifyCode(ctx context.Context, phone, code, name string) (*Session, error) {
	phone = normalizePhone(phone)
	code = strings.TrimSpace(code)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCodeFormat
	}

	unlock := s.phones.Lock(phone)
	defer unlock()

	e := s.get(phone)
	if e == nil {
		otpVerificationsTotal.WithLabelValues("not_found").Inc()
		return nil, ErrOTPNotFound
	}
	if s.cfg.Now().After(e.expiresAt) {
		s.remove(phone, e)
		otpVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword(e.hash, []byte(code)) != nil {
		e.attempts++
		remaining := s.cfg.MaxAttempts - e.attempts
		if remaining <= 0 {
			s.remove(phone, e)
			remaining = 0
		}
		otpVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, &InvalidCodeError{Remaining: remaining}
	}

	// keep the entry until the customer is stored so a DB hiccup can be retried
	cust, err := s.customers.FindOrCreateByPhone(ctx, phone, name)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	s.remove(phone, e)
	otpVerificationsTotal.WithLabelValues("ok").Inc()

	sess := &Session{Customer: cust}
	if s.sessions != nil {
		sess.Token, sess.ExpiresAt, err = s.sessions.IssueCustomer(cust)
		if err != nil {
			return nil, fmt.Errorf("issue session: %w", err)
		}
	}
	return sess, nil
}

// Sweep drops expired entries and returns how many it removed.
func (s *OTPStore) Sweep() int {
	now := s.cfg.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for phone, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, phone)
			n++
		}
	}
	otpLiveEntries.Set(float64(len(s.entries)))
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *OTPStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug("swept expired codes", zap.Int("removed", n))
			}
		}
	}
}

// Len is the number of entries held, live or not yet swept.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *OTPStore) get(phone string) *otpEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[phone]
}

func (s *OTPStore) put(phone string, e *otpEntry) {
	s.mu.Lock()
	s.entries[phone] = e
	otpLiveEntries.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// remove deletes the entry only if it is still the one the caller saw.
func (s *OTPStore) remove(phone string, e *otpEntry) {
	s.mu.Lock()
	if cur, ok := s.entries[phone]; ok && cur == e {
		delete(s.entries, phone)
	}
	otpLiveEntries.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func maskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
