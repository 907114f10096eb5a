package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/paper"
)

const paperTable = "paper"

var paperColumns = []string{
	"id", "subject", "year", "filename", "file_path", "description",
	"uploaded_by", "uploaded_at", "is_active", "file_size",
}

type paperRow struct {
	ID          string    `db:"id"`
	Subject     string    `db:"subject"`
	Year        int       `db:"year"`
	Filename    string    `db:"filename"`
	FilePath    string    `db:"file_path"`
	Description string    `db:"description"`
	UploadedBy  string    `db:"uploaded_by"`
	UploadedAt  time.Time `db:"uploaded_at"`
	IsActive    bool      `db:"is_active"`
	FileSize    int64     `db:"file_size"`
}

func (r paperRow) unpack() paper.Paper {
	return paper.Paper{
		ID:          r.ID,
		Subject:     r.Subject,
		Year:        r.Year,
		Filename:    r.Filename,
		FilePath:    r.FilePath,
		Description: r.Description,
		UploadedBy:  r.UploadedBy,
		UploadedAt:  r.UploadedAt,
		IsActive:    r.IsActive,
		FileSize:    r.FileSize,
	}
}

type paperRepository struct {
	exec core.DBExecutor
}

var _ paper.Repository = (*paperRepository)(nil) // interface compliance check

func NewPaperRepository(exec core.DBExecutor) *paperRepository {
	return &paperRepository{exec: exec}
}

func (repo paperRepository) filterPred(filter paper.Filter) sq.And {
	pred := sq.And{}
	if filter.UploadedBy != "" {
		pred = append(pred, sq.Eq{"uploaded_by": filter.UploadedBy})
	}
	if filter.IsActive != nil {
		pred = append(pred, sq.Eq{"is_active": *filter.IsActive})
	}
	return pred
}

func (repo paperRepository) CreatePaper(ctx context.Context, p paper.Paper, exec ...core.DBExecutor) (paper.Paper, error) {
	p.ID = uuid.New().String()

	query, args, err := psql.Insert(paperTable).
		Columns(paperColumns...).
		Values(
			p.ID, p.Subject, p.Year, p.Filename, p.FilePath, p.Description,
			p.UploadedBy, p.UploadedAt, p.IsActive, p.FileSize,
		).ToSql()
	if err != nil {
		return paper.Paper{}, errors.Wrap(err, "building paper insert")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return paper.Paper{}, errors.Wrap(err, "inserting paper")
	}
	return p, nil
}

func (repo paperRepository) GetPaperByID(ctx context.Context, id string, exec ...core.DBExecutor) (paper.Paper, error) {
	if _, err := uuid.Parse(id); err != nil {
		return paper.Paper{}, paper.ErrNotFound
	}

	query, args, err := psql.Select(paperColumns...).From(paperTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return paper.Paper{}, errors.Wrap(err, "building paper query")
	}

	var row paperRow
	if err = sqlx.GetContext(ctx, getExec(repo.exec, exec), &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return paper.Paper{}, paper.ErrNotFound
		}
		return paper.Paper{}, errors.Wrap(err, "finding paper by ID")
	}
	return row.unpack(), nil
}

func (repo paperRepository) FilterPapers(ctx context.Context, filter paper.Filter, exec ...core.DBExecutor) ([]paper.Paper, error) {
	builder := psql.Select(paperColumns...).From(paperTable)
	if pred := repo.filterPred(filter); len(pred) > 0 {
		builder = builder.Where(pred)
	}
	if len(filter.Ordering) > 0 {
		builder = builder.OrderBy(strings.Join(orderClauses(filter.Ordering), ", "))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building papers query")
	}

	var rows []paperRow
	if err = sqlx.SelectContext(ctx, getExec(repo.exec, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying papers")
	}

	papers := make([]paper.Paper, 0, len(rows))
	for _, row := range rows {
		papers = append(papers, row.unpack())
	}
	return papers, nil
}

func (repo paperRepository) CountPapers(ctx context.Context, filter paper.Filter, exec ...core.DBExecutor) (int, error) {
	builder := psql.Select("COUNT(*)").From(paperTable)
	if pred := repo.filterPred(filter); len(pred) > 0 {
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building papers count")
	}

	var cnt int
	if err = sqlx.GetContext(ctx, getExec(repo.exec, exec), &cnt, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting papers")
	}
	return cnt, nil
}
