package analysiscache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"jumpcut/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes; old databases must be cleared.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different schema version.
var ErrSchemaMismatch = errors.New("analysis cache schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Key identifies one analysis of one source.
type Key struct {
	Path        string
	Size        int64
	ModTime     int64
	FrameLength float64
	Stream      string
}

// KeyFor stats path and builds its cache key.
func KeyFor(path string, frameLength float64, stream string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Key{}, fmt.Errorf("stat source: %w", err)
	}
	return Key{
		Path:        abs,
		Size:        info.Size(),
		ModTime:     info.ModTime().UnixNano(),
		FrameLength: frameLength,
		Stream:      strings.TrimSpace(stream),
	}, nil
}

// Entry is a cached loudness sequence.
type Entry struct {
	Key        Key
	SampleRate int
	Levels     []float64
	CreatedAt  time.Time
}

// Stats summarises the cache contents.
type Stats struct {
	Path    string    `json:"path"`
	Entries int       `json:"entries"`
	Sources int       `json:"sources"`
	Frames  int64     `json:"frames"`
	Bytes   int64     `json:"bytes"`
	Oldest  time.Time `json:"oldest"`
	Newest  time.Time `json:"newest"`
}

// Cache is a SQLite-backed loudness cache. A Cache opened with an empty
// path is disabled: lookups miss and stores are dropped.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open creates or connects to the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Cache, error) {
	logger = logging.NewComponentLogger(logger, "analysiscache")
	c := &Cache{path: strings.TrimSpace(path), logger: logger}
	if c.path == "" {
		return c, nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	c.db = db
	if err := c.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Enabled reports whether the cache is backed by a database.
func (c *Cache) Enabled() bool {
	return c != nil && c.db != nil
}

// Path returns the database location.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Lookup returns the cached levels for key, if any.
func (c *Cache) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	if !c.Enabled() {
		return Entry{}, false, nil
	}
	var (
		blob      []byte
		rate      int
		frames    int
		createdAt string
	)
	err := retryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx, `SELECT levels, sample_rate, frame_count, created_at FROM levels
			WHERE source_path = ? AND size = ? AND mod_time = ? AND frame_length = ? AND stream = ?`,
			key.Path, key.Size, key.ModTime, key.FrameLength, key.Stream,
		).Scan(&blob, &rate, &frames, &createdAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("query levels: %w", err)
	}
	levels, err := decodeLevels(blob)
	if err != nil || len(levels) != frames {
		logging.WarnWithContext(c.logger, "discarding corrupt cache entry", "analysiscache_corrupt",
			logging.String(logging.FieldSource, key.Path),
			logging.Int("frames", frames),
			logging.String(logging.FieldErrorHint, "the entry is recomputed on next analysis"),
			logging.String(logging.FieldImpact, "audio is re-extracted for this source"),
		)
		_ = c.delete(ctx, key)
		return Entry{}, false, nil
	}
	created, _ := time.Parse(time.RFC3339Nano, createdAt)
	return Entry{Key: key, SampleRate: rate, Levels: levels, CreatedAt: created}, true, nil
}

// Store saves levels under key, replacing entries for older versions of the same file.
func (c *Cache) Store(ctx context.Context, key Key, sampleRate int, levels []float64) error {
	if !c.Enabled() {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnBusy(ctx, func() error {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin store tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM levels WHERE source_path = ? AND (size != ? OR mod_time != ?)",
			key.Path, key.Size, key.ModTime,
		); err != nil {
			return fmt.Errorf("prune stale entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO levels
			(source_path, size, mod_time, frame_length, stream, sample_rate, frame_count, levels, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key.Path, key.Size, key.ModTime, key.FrameLength, key.Stream,
			sampleRate, len(levels), encodeLevels(levels), now,
		); err != nil {
			return fmt.Errorf("insert levels: %w", err)
		}
		return tx.Commit()
	})
}

// Stats reports entry counts and storage use.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: c.Path()}
	if !c.Enabled() {
		return stats, nil
	}
	var oldest, newest sql.NullString
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(1), COUNT(DISTINCT source_path),
		COALESCE(SUM(frame_count), 0), COALESCE(SUM(LENGTH(levels)), 0),
		MIN(created_at), MAX(created_at) FROM levels`,
	).Scan(&stats.Entries, &stats.Sources, &stats.Frames, &stats.Bytes, &oldest, &newest)
	if err != nil {
		return stats, fmt.Errorf("query cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest, _ = time.Parse(time.RFC3339Nano, oldest.String)
	}
	if newest.Valid {
		stats.Newest, _ = time.Parse(time.RFC3339Nano, newest.String)
	}
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := c.db.ExecContext(ctx, "DELETE FROM levels")
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return removed, nil
}

func (c *Cache) delete(ctx context.Context, key Key) error {
	_, err := c.db.ExecContext(ctx,
		"DELETE FROM levels WHERE source_path = ? AND size = ? AND mod_time = ? AND frame_length = ? AND stream = ?",
		key.Path, key.Size, key.ModTime, key.FrameLength, key.Stream)
	return err
}

func encodeLevels(levels []float64) []byte {
	buf := make([]byte, 8*len(levels))
	for i, v := range levels {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeLevels(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("levels blob has %d bytes", len(blob))
	}
	levels := make([]float64, len(blob)/8)
	for i := range levels {
		levels[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return levels, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
