package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/audit"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

type testLogger struct {
	errorCalls int
}

func (l *testLogger) Debug(string, ...interface{}) {}
func (l *testLogger) Info(string, ...interface{})  {}
func (l *testLogger) Warn(string, ...interface{})  {}
func (l *testLogger) Error(string, ...interface{}) { l.errorCalls++ }
func (l *testLogger) Fatal(string, ...interface{}) {}

func TestService_Record(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewAuditRepository(db)
	logger := &testLogger{}
	svc := audit.NewService(nil, repo, logger)
	ctx := context.Background()

	err := svc.Record(ctx, "faculty-1", audit.ActionLogin, "Faculty X logged in", "127.0.0.1", "go-test")
	require.NoError(t, err)

	entries, err := svc.RecentByActor(ctx, "faculty-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionLogin, entries[0].Action)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

// a failed audit write is logged and surfaced, but callers drop it on purpose;
// the triggering action must never be aborted by it
func TestService_Record_bestEffort(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewAuditRepository(db)
	logger := &testLogger{}
	svc := audit.NewService(nil, repo, logger)
	ctx := context.Background()

	repo.FailNext = errors.New("disk full")

	err := svc.Record(ctx, "faculty-1", audit.ActionLogout, "", "", "")
	assert.Error(t, err)
	assert.Equal(t, 1, logger.errorCalls)

	// the failure did not poison subsequent writes
	require.NoError(t, svc.Record(ctx, "faculty-1", audit.ActionLogout, "", "", ""))
}

func TestService_RecentByActor(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewAuditRepository(db)
	svc := audit.NewService(nil, repo, &testLogger{})
	ctx := context.Background()

	base := time.Date(2023, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		_, err := repo.CreateEntry(ctx, audit.Entry{
			ActorID:   "faculty-1",
			Action:    audit.ActionUploadPYQP,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateEntry(ctx, audit.Entry{ActorID: "faculty-2", Action: audit.ActionLogin, CreatedAt: base})
	require.NoError(t, err)

	entries, err := svc.RecentByActor(ctx, "faculty-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	// newest first, other actors excluded
	assert.True(t, entries[0].CreatedAt.After(entries[9].CreatedAt))
	for _, e := range entries {
		assert.Equal(t, "faculty-1", e.ActorID)
	}
}
