package service

import (
	"context"
	"fmt"
	"strings"

	"dk-delivery/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService manages user accounts. Token minting stays in the HTTP layer;
// this service only answers "who is this" questions against the user store.
type AuthService struct {
	users UserAccountStore
}

func NewAuthService(users UserAccountStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" || input.Email == "" || input.Phone == "" {
		return nil, fmt.Errorf("%w: name, email and phone are required", ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	existing, _, err := s.users.UserByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %v", ErrDependency, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, input.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}
	if err := s.users.CreateUser(ctx, user, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

// Login answers the same ErrNotAuthorized for an unknown email and a wrong
// password so the response never confirms which accounts exist.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, hash, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %v", ErrDependency, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrNotAuthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrNotAuthorized)
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return user, nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
