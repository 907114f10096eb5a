package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/audit"
)

const auditTable = "activity_log"

var auditColumns = []string{"id", "faculty_id", "action", "details", "ip_address", "user_agent", "created_at"}

type auditRow struct {
	ID        string    `db:"id"`
	ActorID   string    `db:"faculty_id"`
	Action    string    `db:"action"`
	Details   string    `db:"details"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}

func (r auditRow) unpack() audit.Entry {
	return audit.Entry(r)
}

type auditRepository struct {
	exec core.DBExecutor
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(exec core.DBExecutor) *auditRepository {
	return &auditRepository{exec: exec}
}

func (repo auditRepository) CreateEntry(ctx context.Context, e audit.Entry, exec ...core.DBExecutor) (audit.Entry, error) {
	e.ID = uuid.New().String()

	query, args, err := psql.Insert(auditTable).
		Columns(auditColumns...).
		Values(e.ID, e.ActorID, e.Action, e.Details, e.IPAddress, e.UserAgent, e.CreatedAt).
		ToSql()
	if err != nil {
		return audit.Entry{}, errors.Wrap(err, "building audit insert")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return audit.Entry{}, errors.Wrap(err, "inserting audit entry")
	}
	return e, nil
}

func (repo auditRepository) RecentEntriesByActor(ctx context.Context, actorID string, limit int, exec ...core.DBExecutor) ([]audit.Entry, error) {
	builder := psql.Select(auditColumns...).From(auditTable).
		Where(sq.Eq{"faculty_id": actorID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building audit query")
	}

	var rows []auditRow
	if err = sqlx.SelectContext(ctx, getExec(repo.exec, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying audit entries")
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.unpack())
	}
	return entries, nil
}
