package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/internal/repository"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// RegisterUserInput holds the profile fields for a new account. Credentials
// are handled at the gateway; only the profile reaches this service.
type RegisterUserInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=20"`
	// Manager accounts start unapproved and wait for an admin to resolve
	// the ApproveManager request filed alongside.
	Manager bool `json:"manager"`
}

// UserService manages accounts and the reminder read queries.
type UserService struct {
	users    repository.UserRepository
	requests repository.ModerationRepository
	cache    *cache.Store
	logger   *slog.Logger
}

// NewUserService creates the user service.
func NewUserService(
	users repository.UserRepository,
	requests repository.ModerationRepository,
	cacheStore *cache.Store,
	logger *slog.Logger,
) *UserService {
	return &UserService{users: users, requests: requests, cache: cacheStore, logger: logger}
}

// Register creates an account. Manager signups are created unapproved with a
// pending ApproveManager request for the admin queue.
func (s *UserService) Register(ctx context.Context, input *RegisterUserInput) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      domain.RoleCustomer,
		Address:   input.Address,
		Phone:     input.Phone,
		Approved:  true,
		Active:    true,
		CreatedAt: now,
	}
	if input.Manager {
		u.Approved = false
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if input.Manager {
		req := &domain.ModerationRequest{
			ID:          uuid.New().String(),
			Type:        domain.RequestApproveManager,
			Name:        input.Name,
			Description: "store manager activation",
			RequestedBy: u.ID,
			CreatedAt:   now,
		}
		if err := s.requests.Create(ctx, req); err != nil {
			return nil, err
		}
		s.cache.Delete(ctx, cache.KeyRequests())
	}

	s.cache.Delete(ctx, cache.KeyUsers())

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
		slog.Bool("manager", input.Manager),
	)
	return u, nil
}

// GetUser returns one account. Admins see anyone; others only themselves.
func (s *UserService) GetUser(ctx context.Context, cap domain.Capability, userID string) (*domain.User, error) {
	if cap.Role != domain.RoleAdmin && !cap.IsOwner(userID) {
		return nil, apperrors.PermissionDenied("cannot view another user's account")
	}
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns all accounts through the cache. Admin only.
func (s *UserService) ListUsers(ctx context.Context, cap domain.Capability) ([]domain.User, error) {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}

	key := cache.KeyUsers()
	var users []domain.User
	if s.cache.GetJSON(ctx, key, &users) {
		return users, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, users, cache.TTLUsers)
	return users, nil
}

// UpdateDeliveryDetails rewrites the caller's address and phone.
func (s *UserService) UpdateDeliveryDetails(ctx context.Context, cap domain.Capability, address, phone string) error {
	if err := s.users.UpdateDeliveryDetails(ctx, cap.UserID, address, phone); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.KeyUsers())
	return nil
}

// Deactivate disables an account. Admins may disable anyone except admin
// accounts; others only themselves.
func (s *UserService) Deactivate(ctx context.Context, cap domain.Capability, userID string) error {
	if cap.Role != domain.RoleAdmin && !cap.IsOwner(userID) {
		return apperrors.PermissionDenied("cannot deactivate another user's account")
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		return apperrors.PermissionDenied("admin accounts cannot be deactivated")
	}

	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.KeyUsers())
	return nil
}

// Reactivate re-enables a deactivated account. Admin only.
func (s *UserService) Reactivate(ctx context.Context, cap domain.Capability, userID string) error {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, userID, true); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.KeyUsers())
	return nil
}

// RecordLogin stamps the user's last login; called by the gateway after a
// successful authentication.
func (s *UserService) RecordLogin(ctx context.Context, userID string) error {
	return s.users.RecordLogin(ctx, userID, time.Now().UTC())
}
