package paper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/paper"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	m.Run()
}

func setup(t *testing.T) (*paper.Service, paper.Repository) {
	t.Helper()
	db := inmemdb.Open()
	repo := inmemdb.NewPaperRepository(db)
	return paper.NewService(nil, repo), repo
}

func newPaper(subject paper.Subject, year int) paper.NewPaper {
	return paper.NewPaper{
		Subject:    subject,
		Year:       year,
		Filename:   "paper.pdf",
		FilePath:   "pyqp/20230412_101501_123456_paper.pdf",
		UploadedBy: "faculty-1",
	}
}

func TestService_Record(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	t.Run("known subject", func(t *testing.T) {
		p, err := svc.Record(ctx, newPaper(paper.KnownSubject("Mathematics"), 2023))
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", p.Subject)
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("custom subject replaces the choice", func(t *testing.T) {
		p, err := svc.Record(ctx, newPaper(paper.CustomSubject("  Robotics "), 2023))
		require.NoError(t, err)
		assert.Equal(t, "Robotics", p.Subject)
	})

	t.Run("empty subject rejected", func(t *testing.T) {
		_, err := svc.Record(ctx, newPaper(paper.Subject{}, 2023))
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok, "expected a validation error, got %v", err)
		assert.Equal(t, "subject", vErr.Fields[0].Field)
	})

	t.Run("year outside four digits rejected", func(t *testing.T) {
		_, err := svc.Record(ctx, newPaper(paper.KnownSubject("Physics"), 202))
		assert.Error(t, err)
	})
}

func TestService_ListActive_catalogOrdering(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	seed := []struct {
		subject string
		year    int
		active  bool
	}{
		{"Physics", 2022, true},
		{"Mathematics", 2023, true},
		{"Chemistry", 2021, true},
		{"Biology", 2023, true},
		{"Mathematics", 2020, false}, // withdrawn, must not appear
	}
	for _, s := range seed {
		_, err := repo.CreatePaper(ctx, paper.Paper{
			Subject:    s.subject,
			Year:       s.year,
			Filename:   "p.pdf",
			FilePath:   "pyqp/p.pdf",
			UploadedBy: "faculty-1",
			UploadedAt: time.Now().UTC(),
			IsActive:   s.active,
		})
		require.NoError(t, err)
	}

	papers, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, papers, 4)

	// newest year first; subjects alphabetical within a year
	wantYears := []int{2023, 2023, 2022, 2021}
	wantSubjects := []string{"Biology", "Mathematics", "Physics", "Chemistry"}
	for i, p := range papers {
		assert.Equal(t, wantYears[i], p.Year)
		assert.Equal(t, wantSubjects[i], p.Subject)
	}
}

func TestService_ListByOwner(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	base := time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		_, err := repo.CreatePaper(ctx, paper.Paper{
			Subject:    "Mathematics",
			Year:       2016 + i,
			Filename:   "p.pdf",
			FilePath:   "pyqp/p.pdf",
			UploadedBy: "faculty-1",
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
			IsActive:   true,
		})
		require.NoError(t, err)
	}
	_, err := repo.CreatePaper(ctx, paper.Paper{
		Subject: "Physics", Year: 2023, Filename: "p.pdf", FilePath: "pyqp/p.pdf",
		UploadedBy: "faculty-2", UploadedAt: base, IsActive: true,
	})
	require.NoError(t, err)

	papers, err := svc.ListByOwner(ctx, "faculty-1", 5)
	require.NoError(t, err)
	require.Len(t, papers, 5)

	// most recent first, other owners excluded
	assert.Equal(t, 2022, papers[0].Year)
	for _, p := range papers {
		assert.Equal(t, "faculty-1", p.UploadedBy)
	}

	count, err := svc.CountByOwner(ctx, "faculty-1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestGroupBySubject(t *testing.T) {
	papers := []paper.Paper{
		{Subject: "Biology", Year: 2023},
		{Subject: "Mathematics", Year: 2023},
		{Subject: "Physics", Year: 2022},
		{Subject: "Mathematics", Year: 2021},
	}

	subjects, grouped := paper.GroupBySubject(papers)

	assert.Equal(t, []string{"Biology", "Mathematics", "Physics"}, subjects)
	assert.Len(t, grouped["Mathematics"], 2)
	// incoming order preserved within a bucket
	assert.Equal(t, 2023, grouped["Mathematics"][0].Year)
	assert.Equal(t, 2021, grouped["Mathematics"][1].Year)
}
