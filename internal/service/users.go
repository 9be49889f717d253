package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/pagination"
)

const minPasswordLength = 8

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func compareUsers(field string, a, b domain.User) int {
	switch field {
	case "id":
		return a.ID - b.ID
	case "username":
		return strings.Compare(a.Username, b.Username)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return 0
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := requireRole(ctx); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.UserRoleCustomer
	}
	status := req.Status
	if status == "" {
		status = domain.UserStatusActive
	}

	user, err := domain.NewUser(req.Email, req.Username, hash, role, status)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Address = req.Address
	user.Phone = req.Phone

	return s.repo.CreateUser(ctx, *user)
}

func (s *Service) GetUser(ctx context.Context, id int) (*domain.User, error) {
	if err := requireRole(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, params pagination.Parameters) (*pagination.Result[domain.User], error) {
	if err := requireRole(ctx); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.Apply(users, params, compareUsers)
	return &page, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := requireRole(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := existing.UpdateEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := existing.UpdatePassword(hash); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := existing.UpdateStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := existing.UpdateRole(*req.Role); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		existing.Name = req.Name
	}
	if req.Address != nil {
		existing.Address = req.Address
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}

	return s.repo.UpdateUser(ctx, *existing)
}

func (s *Service) DeleteUser(ctx context.Context, id int) error {
	if err := requireRole(ctx); err != nil {
		return err
	}
	return s.repo.DeleteUser(ctx, id)
}

// Authenticate verifies a username/password pair against the stored hash.
// Inactive and suspended accounts cannot log in. Lookup failure and password
// mismatch are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username string, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}
	if user.Status != domain.UserStatusActive {
		return nil, fmt.Errorf("%w: account is %s", ErrForbidden, user.Status)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}
	return user, nil
}
