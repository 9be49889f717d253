package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	UserRoleCustomer = "customer"
	UserRoleManager  = "manager"
	UserRoleAdmin    = "admin"
)

const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

type Name struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type Geolocation struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

type Address struct {
	City        string       `json:"city"`
	Street      string       `json:"street"`
	Number      int          `json:"number"`
	ZipCode     string       `json:"zipcode"`
	Geolocation *Geolocation `json:"geolocation,omitempty"`
}

// User is an account in the back office. Password holds a bcrypt hash; the
// service layer hashes before the entity is constructed or updated.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Name      *Name     `json:"name,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(email string, username string, passwordHash string, role string, status string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrInvalidArgument)
	}
	if !isValidUserRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}
	if !isValidUserStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}
	return &User{
		Email:     email,
		Username:  username,
		Password:  passwordHash,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (u *User) UpdateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrInvalidArgument)
	}
	u.Email = email
	return nil
}

func (u *User) UpdatePassword(passwordHash string) error {
	if strings.TrimSpace(passwordHash) == "" {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidArgument)
	}
	u.Password = passwordHash
	return nil
}

func (u *User) UpdateStatus(status string) error {
	if !isValidUserStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}
	u.Status = status
	return nil
}

func (u *User) UpdateRole(role string) error {
	if !isValidUserRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}
	u.Role = role
	return nil
}

func isValidUserRole(role string) bool {
	switch role {
	case UserRoleCustomer, UserRoleManager, UserRoleAdmin:
		return true
	default:
		return false
	}
}

func isValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	default:
		return false
	}
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	Username string
	Role     string
}
