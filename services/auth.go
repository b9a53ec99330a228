package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-storefront/models"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	Generate(u *models.User) (string, error)
}

// AuthService checks credentials and registers accounts
type AuthService struct {
	users      UserRepository
	userSvc    *UserService
	tokens     TokenIssuer
	mailer     Mailer
	log        *slog.Logger
	background func(func())
}

func NewAuthService(users UserRepository, userSvc *UserService, tokens TokenIssuer, mailer Mailer, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		userSvc:    userSvc,
		tokens:     tokens,
		mailer:     mailer,
		log:        log,
		background: func(f func()) { go f() },
	}
}

// Login returns a signed token for valid credentials of an active user
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateInput(creds); err != nil {
		return "", err
	}

	u, err := s.users.FindCredentials(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(creds.Password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if !u.IsActive {
		return "", fmt.Errorf("%w: account is not active", ErrUnauthorized)
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Register creates a customer account; an email already in use is a conflict
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	existing, err := s.userSvc.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	}

	u, err := s.userSvc.Create(ctx, models.CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}

	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcomeEmail(ctx, u.Email, u.Name); err != nil {
			s.log.Error("failed to send welcome email", "email", u.Email, "err", err)
		}
	})

	return u, nil
}
