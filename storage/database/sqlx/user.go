package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const userTable = "faculty"

var userColumns = []string{
	"id", "username", "email", "password_hash", "name", "role", "title",
	"department", "phone", "is_active", "is_admin", "created_at", "updated_at", "last_login",
}

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	Title        string    `db:"title"`
	Department   string    `db:"department"`
	Phone        string    `db:"phone"`
	IsActive     bool      `db:"is_active"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Role:         user.Role(r.Role),
		Title:        r.Title,
		Department:   r.Department,
		Phone:        r.Phone,
		IsActive:     r.IsActive,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

// trapNoRowsErr maps sql "no rows" to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	pred := sq.And{sq.Or{sq.Eq{"username": username}, sq.Eq{"email": email}}}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		pred = append(pred, sq.NotEq{"id": ids})
	}

	query, args, err := psql.Select("1").From(userTable).Where(pred).Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var exists bool
	if err = sqlx.GetContext(ctx, getExec(repo.exec, exec), &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking account uniqueness")
	}
	if exists {
		return user.ErrUserExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()

	query, args, err := psql.Insert(userTable).
		Columns(userColumns...).
		Values(
			usr.ID, usr.Username, usr.Email, usr.PasswordHash, usr.Name, string(usr.Role), usr.Title,
			usr.Department, usr.Phone, usr.IsActive, usr.IsAdmin, usr.CreatedAt, usr.UpdatedAt,
			null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()),
		).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building account insert")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "inserting account")
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	var pred interface{}
	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		pred = sq.Eq{"id": filter.ID}
	case filter.Username != "":
		pred = sq.Eq{"username": filter.Username}
	case filter.Email != "":
		pred = sq.Eq{"email": filter.Email}
	case len(filter.UsernameOrEmail) > 0:
		uname := filter.UsernameOrEmail[0]
		email := uname
		if len(filter.UsernameOrEmail) == 2 && filter.UsernameOrEmail[1] != "" {
			email = filter.UsernameOrEmail[1]
		}
		pred = sq.Or{sq.Eq{"username": uname}, sq.Eq{"email": email}}
	default:
		return user.User{}, user.ErrNotFound
	}

	query, args, err := psql.Select(userColumns...).From(userTable).Where(pred).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building account query")
	}

	var row userRow
	if err = sqlx.GetContext(ctx, getExec(repo.exec, exec), &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding account")
	}
	return row.unpack(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	query, args, err := psql.Update(userTable).
		Set("email", usr.Email).
		Set("password_hash", usr.PasswordHash).
		Set("name", usr.Name).
		Set("role", string(usr.Role)).
		Set("title", usr.Title).
		Set("department", usr.Department).
		Set("phone", usr.Phone).
		Set("is_active", usr.IsActive).
		Set("is_admin", usr.IsAdmin).
		Set("updated_at", usr.UpdatedAt).
		Where(sq.Eq{"id": usr.ID}).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building account update")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "updating account")
	}
	return usr, nil
}

func (repo userRepository) SetLastLogin(ctx context.Context, id string, t time.Time, exec ...core.DBExecutor) error {
	query, args, err := psql.Update(userTable).
		Set("last_login", t).
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building lastLogin update")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "setting lastLogin")
	}
	return nil
}

func (repo userRepository) CountUsers(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(userTable).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building account count")
	}

	var cnt int
	if err = sqlx.GetContext(ctx, getExec(repo.exec, exec), &cnt, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting accounts")
	}
	return cnt, nil
}
