package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/member"
)

const memberTable = "faculty_member"

var memberColumns = []string{
	"id", "name", "title", "qualification", "description",
	"image_path", "experience", "specialization", "created_at", "updated_at",
}

type memberRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Title          string    `db:"title"`
	Qualification  string    `db:"qualification"`
	Description    string    `db:"description"`
	ImagePath      string    `db:"image_path"`
	Experience     string    `db:"experience"`
	Specialization string    `db:"specialization"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r memberRow) unpack() member.Member {
	return member.Member(r)
}

type memberRepository struct {
	exec core.DBExecutor
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(exec core.DBExecutor) *memberRepository {
	return &memberRepository{exec: exec}
}

func (repo memberRepository) CreateMember(ctx context.Context, m member.Member, exec ...core.DBExecutor) (member.Member, error) {
	m.ID = uuid.New().String()

	query, args, err := psql.Insert(memberTable).
		Columns(memberColumns...).
		Values(
			m.ID, m.Name, m.Title, m.Qualification, m.Description,
			m.ImagePath, m.Experience, m.Specialization, m.CreatedAt, m.UpdatedAt,
		).ToSql()
	if err != nil {
		return member.Member{}, errors.Wrap(err, "building member insert")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return member.Member{}, errors.Wrap(err, "inserting member")
	}
	return m, nil
}

func (repo memberRepository) QueryAllMembers(ctx context.Context, exec ...core.DBExecutor) ([]member.Member, error) {
	query, args, err := psql.Select(memberColumns...).From(memberTable).OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building members query")
	}

	var rows []memberRow
	if err = sqlx.SelectContext(ctx, getExec(repo.exec, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying members")
	}

	members := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.unpack())
	}
	return members, nil
}

func (repo memberRepository) CountMembers(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(memberTable).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building members count")
	}

	var cnt int
	if err = sqlx.GetContext(ctx, getExec(repo.exec, exec), &cnt, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting members")
	}
	return cnt, nil
}
