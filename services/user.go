package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-storefront/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages user accounts, including guest shoppers
type UserService struct {
	users    UserRepository
	log      *slog.Logger
	hashCost int
}

func NewUserService(users UserRepository, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log, hashCost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *UserService) Create(ctx context.Context, in models.CreateUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}

	u, err := s.users.Create(ctx, &models.User{
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    hashed,
		Role:        role,
		IsActive:    true,
	})
	if err != nil {
		return nil, conflict(err, "user already exists")
	}
	return u, nil
}

func (s *UserService) FindAll(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	return s.users.Paginate(ctx, q)
}

func (s *UserService) FindOne(ctx context.Context, hexID string) (*models.User, error) {
	id, err := parseID("id", hexID)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("User", id, err)
	}
	return u, nil
}

// FindByEmail returns nil without error when no user owns the email
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, hexID string, in models.UpdateUserInput) (*models.User, error) {
	id, err := parseID("id", hexID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if in.Password != nil {
		hashed, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		in.Password = &hashed
	}

	u, err := s.users.Update(ctx, id, in)
	if err != nil {
		return nil, conflict(notFound("User", id, err), "email already in use")
	}
	return u, nil
}

func (s *UserService) Remove(ctx context.Context, hexID string) error {
	id, err := parseID("id", hexID)
	if err != nil {
		return err
	}
	return notFound("User", id, s.users.Delete(ctx, id))
}

// CreateGuestUser returns the user owning the email, creating an inactive
// customer with an unguessable password when there is none.
func (s *UserService) CreateGuestUser(ctx context.Context, in models.GuestUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	placeholder, err := s.hashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}

	u, created, err := s.users.FindOrCreateByEmail(ctx, &models.User{
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    placeholder,
		Role:        models.RoleCustomer,
		IsActive:    false,
	})
	if err != nil {
		return nil, fmt.Errorf("find or create guest user: %w", err)
	}
	if created {
		s.log.Info("guest user created", "user_id", u.ID.Hex())
	}
	return u, nil
}
