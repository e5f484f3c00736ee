package recorder

import (
	"database/sql"

	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS samples (
	       timestamp          INTEGER PRIMARY KEY,
	       cpu_utilization    REAL NOT NULL,
	       cpu_clock_mhz      INTEGER NOT NULL,
	       cpu_package_temp   REAL NOT NULL,
	       cpu_power_watts    REAL NOT NULL,
	       cpu_throttling     INTEGER NOT NULL CHECK (cpu_throttling IN (0, 1)),
	       gpu_utilization    REAL NOT NULL,
	       gpu_clock_mhz      INTEGER NOT NULL,
	       gpu_memory_mb      INTEGER NOT NULL,
	       gpu_package_temp   REAL NOT NULL,
	       gpu_power_watts    REAL NOT NULL,
	       gpu_throttling     INTEGER NOT NULL CHECK (gpu_throttling IN (0, 1)),
	       memory_used_mb     INTEGER NOT NULL,
	       memory_temp        REAL NOT NULL,
	       storage_read_mbps  REAL NOT NULL,
	       storage_write_mbps REAL NOT NULL,
	       storage_temp       REAL NOT NULL
	   );`

	insertSampleSQL = `
    INSERT INTO samples (
        timestamp,
        cpu_utilization, cpu_clock_mhz, cpu_package_temp, cpu_power_watts, cpu_throttling,
        gpu_utilization, gpu_clock_mhz, gpu_memory_mb, gpu_package_temp, gpu_power_watts, gpu_throttling,
        memory_used_mb, memory_temp,
        storage_read_mbps, storage_write_mbps, storage_temp
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(timestamp) DO NOTHING`
)

// InitSchema creates the sample tables and records the schema version.
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().Int("version", SchemaVersion).Msg("Sample schema initialized")

	return nil
}

// GetSchemaVersion returns the recorded schema version, or zero for a
// fresh database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := tableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	return version, nil
}

func tableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errors.New().Wrap(ErrSchemaValidationFailed, err)
	}
	return exists, nil
}

func validateSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	version, err := GetSchemaVersion(db)
	if err != nil {
		return err
	}

	switch {
	case version == 0:
		return InitSchema(db, log)
	case version == SchemaVersion:
		return nil
	default:
		return errFactory.WithData(ErrSchemaValidationFailed, struct {
			Found    int
			Expected int
		}{
			Found:    version,
			Expected: SchemaVersion,
		})
	}
}
