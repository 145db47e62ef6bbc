package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"datahealth/domain/core"
	"datahealth/internal/auth"
	"datahealth/internal/errors"
	"datahealth/models"
	"datahealth/ports"
)

// AccountService handles sign up, log in and token authentication
type AccountService struct {
	users  ports.UserRepository
	tokens *auth.TokenIssuer
	now    func() time.Time
}

// NewAccountService creates an account service
func NewAccountService(users ports.UserRepository, tokens *auth.TokenIssuer) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Session is a signed token together with its user
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup creates a user and logs them in
func (s *AccountService) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, errors.InvalidInput("name and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           core.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.session(user)
}

// Login checks the credentials and issues a token
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid email or password")
	}
	return s.session(user)
}

// Authenticate resolves a bearer token to its user
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("Invalid token")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
