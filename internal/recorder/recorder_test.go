package recorder_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/recorder"
	"codeberg.org/mutker/sysmond/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) recorder.Config {
	t.Helper()

	cfg := recorder.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = filepath.Join(t.TempDir(), "samples.db")
	cfg.BatchSize = 2
	cfg.BatchTimeout = 1
	return cfg
}

func snapshotAt(ts time.Time) *recorder.Snapshot {
	return &recorder.Snapshot{
		Timestamp:      ts,
		CPUUtilization: 42.5,
		CPUClockMHz:    3600,
		MemoryUsedMB:   8192,
	}
}

func TestDisabledCollectorIsNoop(t *testing.T) {
	cfg := recorder.DefaultConfig()
	cfg.DBPath = "" // must not matter when disabled

	collector, err := recorder.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	defer collector.Close()

	assert.False(t, collector.Enabled())
	assert.NoError(t, collector.Record(context.Background(), snapshotAt(time.Now())))
}

func TestRecordAndFlush(t *testing.T) {
	cfg := testConfig(t)

	collector, err := recorder.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	assert.True(t, collector.Enabled())

	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, collector.Record(ctx, snapshotAt(base.Add(time.Duration(i)*time.Second))))
	}

	// Close flushes whatever is still buffered
	require.NoError(t, collector.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count))
	assert.Equal(t, 3, count)

	var utilization float64
	require.NoError(t, db.QueryRow(
		"SELECT cpu_utilization FROM samples ORDER BY timestamp LIMIT 1").Scan(&utilization))
	assert.InDelta(t, 42.5, utilization, 0.0001)
}

func TestSchemaVersionRecorded(t *testing.T) {
	cfg := testConfig(t)

	collector, err := recorder.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, collector.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := recorder.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, recorder.SchemaVersion, version)
}

func TestReopenExistingDatabase(t *testing.T) {
	cfg := testConfig(t)

	first, err := recorder.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Record(context.Background(), snapshotAt(time.Now())))
	require.NoError(t, first.Close())

	// Same path again; schema already present
	second, err := recorder.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestRecordCancelledContext(t *testing.T) {
	cfg := testConfig(t)

	collector, err := recorder.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	defer collector.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = collector.Record(ctx, snapshotAt(time.Now()))
	assert.Error(t, err)
}

func TestSnapshotFrom(t *testing.T) {
	st := state.New(time.Second)
	st.CPU.Utilization.Update(55.5)
	st.GPU.MemoryUsedMB.Update(4096)
	st.CPU.ThermalThrottling.Update(true)

	snapshot := recorder.SnapshotFrom(st)

	assert.InDelta(t, 55.5, snapshot.CPUUtilization, 0.0001)
	assert.Equal(t, uint64(4096), snapshot.GPUMemoryMB)
	assert.True(t, snapshot.CPUThrottling)
	assert.Zero(t, snapshot.GPUUtilization, "Unseeded channels record as zero")
	assert.False(t, snapshot.Timestamp.IsZero())
}
