package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Role is the closed set of account roles; the landing route after login is
// derived from it instead of matching free-text labels.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
)

var Roles = []Role{RoleAdmin, RoleFaculty}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LandingRoute maps a role to the page an authenticated account lands on.
func (r Role) LandingRoute() string {
	switch r {
	case RoleAdmin, RoleFaculty:
		return "/faculty/dashboard"
	default:
		return "/"
	}
}

// User is a faculty/staff login account.
type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	Role         Role
	Title        string // display label, eg. "Principal", "Mathematics HOD"
	Department   string
	Phone        string
	IsActive     bool
	IsAdmin      bool
	PasswordHash []byte
	CreatedAt    time.Time // UTC
	UpdatedAt    time.Time // UTC
	LastLogin    time.Time // UTC; zero until first successful login
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to create a new User.
// Accounts are only ever created by seeding or the admin CLI; there is no
// self-registration flow.
type NewUser struct {
	Username   string `json:"username" validate:"required,min=3,alphanum_"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Role       Role   `json:"role"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	IsAdmin    bool   `json:"is_admin"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	if nu.Role == "" {
		nu.Role = RoleFaculty
	}
	if !nu.Role.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateProfile defines what an account may change about itself.
// A password change requires the current password to match.
type UpdateProfile struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone"`
	Department      string `form:"department"`
	CurrentPassword string `form:"current_password" validate:"required_with=NewPassword"`
	NewPassword     string `form:"new_password"`
}

func (up *UpdateProfile) Validate(origUsr User, svc *Service) error {
	up.Name = core.CleanString(up.Name)
	up.Email = core.CleanString(up.Email, true /* lower */)
	up.Phone = core.CleanString(up.Phone)
	up.Department = core.CleanString(up.Department)

	if err := core.Validate.Struct(up); err != nil {
		return err
	}
	return svc.CheckUniqueness(origUsr.Username, up.Email, origUsr)
}

// GetFilter selects a single User; exactly one of its fields is expected to be set.
type GetFilter struct {
	ID              string
	Username        string
	Email           string
	UsernameOrEmail []string
}
