package services

import (
	"errors"
	"strings"

	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff login and onboarding. Customers authenticate through OTPStore.
type AuthService struct {
	staffRepo *repository.StaffRepository
	sessions  SessionIssuer
}

func NewAuthService(repo *repository.StaffRepository, sessions SessionIssuer) *AuthService {
	return &AuthService{staffRepo: repo, sessions: sessions}
}

// RegisterStaff creates a staff account bound to a restaurant.
func (s *AuthService) RegisterStaff(email, password, name, role string, restaurantID uint) (*entity.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if len(password) < 6 {
		return nil, invalid("password", "must be at least 6 characters")
	}
	if role == "" {
		role = "staff"
	}

	count, err := s.staffRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, invalid("email", "already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash password failed")
	}

	st := &entity.Staff{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(name),
		Role:         role,
		RestaurantID: restaurantID,
	}
	if err := s.staffRepo.Create(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Login checks the password and issues a staff session.
func (s *AuthService) Login(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	st, err := s.staffRepo.FindByEmail(email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.sessions.IssueStaff(st)
	if err != nil {
		return nil, errors.New("cannot generate token")
	}
	return &Session{Token: token, ExpiresAt: exp, Staff: st}, nil
}
