package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/SAP-F-2025/attendance-service/internal/authz"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

// NewUserService creates a new user service instance
func NewUserService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest, callerRole models.UserRole) (*models.User, error) {
	if !authz.Can(callerRole, authz.OpManageUsers) {
		return nil, ErrForbidden
	}

	if errs := s.validator.GetBusinessValidator().ValidateUserCreate(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}

	// Serial assignment and insert share a transaction so two
	// concurrent creates cannot claim the same serial.
	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		serial, err := r.User().NextSerial(ctx, nil, req.Role)
		if err != nil {
			return fmt.Errorf("failed to assign serial: %w", err)
		}
		switch req.Role {
		case models.RoleStudent:
			user.StudentSerial = &serial
		case models.RoleFaculty:
			user.FacultySerial = &serial
		}
		return r.User().Create(ctx, nil, user)
	})
	if err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrUsernameOrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters, callerRole models.UserRole) (*UserListResponse, error) {
	if !authz.Can(callerRole, authz.OpManageUsers) {
		return nil, ErrForbidden
	}

	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  pageFromOffset(filters.Offset, filters.Limit),
		Size:  filters.Limit,
	}, nil
}

func (s *userService) Deactivate(ctx context.Context, id uint, callerRole models.UserRole) error {
	if !authz.Can(callerRole, authz.OpManageUsers) {
		return ErrForbidden
	}

	if err := s.repo.User().Deactivate(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Info("user deactivated", "user_id", id)
	return nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return errs
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}
