package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	device_id TEXT NOT NULL,
	barcode TEXT NOT NULL,
	content TEXT NOT NULL,
	star_count INTEGER NOT NULL CHECK (star_count BETWEEN 1 AND 5),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS reviews_device_barcode ON reviews (device_id, barcode);
CREATE INDEX IF NOT EXISTS reviews_barcode ON reviews (barcode);`

const sqliteColumns = "id, device_id, barcode, content, star_count, created_at, updated_at"

// SQLiteStore persists reviews in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewSQLiteStore creates (or opens) the database at path and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
			return nil, fmt.Errorf("create review dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path, now: time.Now}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

// ListByBarcode returns every review for a product, newest first.
func (s *SQLiteStore) ListByBarcode(ctx context.Context, barcode string) ([]domain.Review, error) {
	return s.query(ctx, "SELECT "+sqliteColumns+" FROM reviews WHERE barcode = ? ORDER BY created_at DESC", barcode)
}

// ListByDevice returns every review written by a device, newest first.
func (s *SQLiteStore) ListByDevice(ctx context.Context, deviceID string) ([]domain.Review, error) {
	return s.query(ctx, "SELECT "+sqliteColumns+" FROM reviews WHERE device_id = ? ORDER BY created_at DESC", deviceID)
}

// FindByDeviceAndBarcode returns nil when the device has not reviewed the product.
func (s *SQLiteStore) FindByDeviceAndBarcode(ctx context.Context, deviceID, barcode string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM reviews WHERE device_id = ? AND barcode = ?", deviceID, barcode)
	rev, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// Insert stores a new review, assigning its id and timestamps.
func (s *SQLiteStore) Insert(ctx context.Context, review domain.Review) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	review.ID = uuid.NewString()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, "INSERT INTO reviews ("+sqliteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		review.ID,
		review.DeviceID,
		review.Barcode,
		review.Content,
		review.StarCount,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return domain.Review{}, domain.ErrReviewExists
		}
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// Update changes the set fields of a review owned by deviceID.
func (s *SQLiteStore) Update(ctx context.Context, id, deviceID string, update domain.ReviewUpdate) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	builder := strings.Builder{}
	builder.WriteString("UPDATE reviews SET updated_at = ?")
	args := []interface{}{formatTime(s.now().UTC())}
	if update.Content != nil {
		builder.WriteString(", content = ?")
		args = append(args, *update.Content)
	}
	if update.StarCount != nil {
		builder.WriteString(", star_count = ?")
		args = append(args, *update.StarCount)
	}
	builder.WriteString(" WHERE id = ? AND device_id = ?")
	args = append(args, id, deviceID)

	res, err := s.db.ExecContext(ctx, builder.String(), args...)
	if err != nil {
		return domain.Review{}, fmt.Errorf("update review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Review{}, domain.ErrReviewNotFound
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM reviews WHERE id = ?", id)
	return scanReview(row)
}

// Delete removes a review owned by deviceID.
func (s *SQLiteStore) Delete(ctx context.Context, id, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ? AND device_id = ?", id, deviceID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	records := []domain.Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rev)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(row rowScanner) (domain.Review, error) {
	var rev domain.Review
	var created, updated string
	if err := row.Scan(&rev.ID, &rev.DeviceID, &rev.Barcode, &rev.Content, &rev.StarCount, &created, &updated); err != nil {
		return domain.Review{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		rev.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		rev.UpdatedAt = t
	}
	return rev, nil
}

// fixed-width so lexical order matches chronological order
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

var _ ports.ReviewRepository = (*SQLiteStore)(nil)
