package user

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrUserExists = errors.New("an account with this username or email already exists")

	// ErrAuthenticationFailed is returned for a missing account, a password
	// mismatch and an inactive account alike; callers must not be able to tell
	// which one it was.
	ErrAuthenticationFailed = errors.New("invalid username or password")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers []User, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		SetLastLogin(ctx context.Context, id string, t time.Time, exec ...core.DBExecutor) error
		CountUsers(ctx context.Context, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, exclUsers); err != nil {
		if err == ErrUserExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Username:   nu.Username,
		Email:      nu.Email,
		Name:       nu.Name,
		Role:       nu.Role,
		Title:      nu.Title,
		Department: nu.Department,
		Phone:      nu.Phone,
		IsActive:   true,
		IsAdmin:    nu.IsAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

// Authenticate checks the credentials against the stored hash and the active
// flag; on success it stamps last_login. All failure modes collapse into
// ErrAuthenticationFailed so account existence does not leak.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, pkgerrors.Wrap(err, "finding account by username")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	if !usr.IsActive {
		return User{}, ErrAuthenticationFailed
	}

	usr.LastLogin = time.Now().UTC()
	err = core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		return svc.repo.SetLastLogin(ctx, usr.ID, usr.LastLogin, tx)
	})
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	uname = core.CleanString(uname, true /* lower */)
	return svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: []string{uname, uname}})
}

// UpdateProfile applies an account's own profile edits; last write wins.
// A non-empty NewPassword is only applied when CurrentPassword matches.
func (svc *Service) UpdateProfile(ctx context.Context, usr User, up UpdateProfile) (User, error) {
	usr.Name = up.Name
	usr.Email = up.Email
	usr.Phone = up.Phone
	usr.Department = up.Department
	usr.UpdatedAt = time.Now().UTC()

	if up.NewPassword != "" {
		if err := usr.CheckPassword(up.CurrentPassword); err != nil {
			return User{}, core.NewValidationError(nil,
				core.FieldError{Field: "current_password", Error: "Current password is incorrect."})
		}
		if err := usr.SetPassword(up.NewPassword); err != nil {
			return User{}, err
		}
	}

	var updated User
	err := core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		var err error
		updated, err = svc.repo.UpdateUser(ctx, usr, tx)
		return err
	})
	if err != nil {
		return User{}, pkgerrors.Wrap(err, "updating profile")
	}
	return updated, nil
}

// ResetPassword force-sets a new password; admin CLI only.
func (svc *Service) ResetPassword(ctx context.Context, usernameOrEmail, pwd string) (User, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = time.Now().UTC()

	err = core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		usr, err = svc.repo.UpdateUser(ctx, usr, tx)
		return err
	})
	return usr, err
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountUsers(ctx)
}
