package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

const pgUniqueViolation = "23505"

// PostgresStore persists reviews in a shared Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. Call EnsureSchema before using it.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// NewPool opens a pgx pool with small, steady defaults.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the reviews table if it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := `
CREATE TABLE IF NOT EXISTS reviews (
  id UUID PRIMARY KEY,
  device_id TEXT NOT NULL,
  barcode TEXT NOT NULL,
  content TEXT NOT NULL,
  star_count SMALLINT NOT NULL CHECK (star_count BETWEEN 1 AND 5),
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  UNIQUE (device_id, barcode)
);
CREATE INDEX IF NOT EXISTS reviews_barcode_idx ON reviews (barcode);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

const pgColumns = "id::text, device_id, barcode, content, star_count, created_at, updated_at"

// ListByBarcode returns every review for a product, newest first.
func (s *PostgresStore) ListByBarcode(ctx context.Context, barcode string) ([]domain.Review, error) {
	return s.query(ctx, "SELECT "+pgColumns+" FROM reviews WHERE barcode = $1 ORDER BY created_at DESC", barcode)
}

// ListByDevice returns every review written by a device, newest first.
func (s *PostgresStore) ListByDevice(ctx context.Context, deviceID string) ([]domain.Review, error) {
	return s.query(ctx, "SELECT "+pgColumns+" FROM reviews WHERE device_id = $1 ORDER BY created_at DESC", deviceID)
}

// FindByDeviceAndBarcode returns nil when the device has not reviewed the product.
func (s *PostgresStore) FindByDeviceAndBarcode(ctx context.Context, deviceID, barcode string) (*domain.Review, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+pgColumns+" FROM reviews WHERE device_id = $1 AND barcode = $2", deviceID, barcode)
	rev, err := scanPGReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &rev, nil
}

// Insert stores a new review, assigning its id and timestamps.
func (s *PostgresStore) Insert(ctx context.Context, review domain.Review) (domain.Review, error) {
	const query = `
INSERT INTO reviews (id, device_id, barcode, content, star_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING ` + pgColumns
	row := s.pool.QueryRow(ctx, query,
		uuid.NewString(),
		review.DeviceID,
		review.Barcode,
		review.Content,
		review.StarCount,
	)
	rev, err := scanPGReview(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Review{}, domain.ErrReviewExists
		}
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return rev, nil
}

// Update changes the set fields of a review owned by deviceID.
func (s *PostgresStore) Update(ctx context.Context, id, deviceID string, update domain.ReviewUpdate) (domain.Review, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Review{}, domain.ErrReviewNotFound
	}
	sets := []string{"updated_at = now()"}
	args := []interface{}{id, deviceID}
	if update.Content != nil {
		args = append(args, *update.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if update.StarCount != nil {
		args = append(args, *update.StarCount)
		sets = append(sets, fmt.Sprintf("star_count = $%d", len(args)))
	}
	query := "UPDATE reviews SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 AND device_id = $2 RETURNING " + pgColumns

	rev, err := scanPGReview(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Review{}, domain.ErrReviewNotFound
	}
	if err != nil {
		return domain.Review{}, fmt.Errorf("update review: %w", err)
	}
	return rev, nil
}

// Delete removes a review owned by deviceID.
func (s *PostgresStore) Delete(ctx context.Context, id, deviceID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrReviewNotFound
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM reviews WHERE id = $1 AND device_id = $2", id, deviceID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close helps when wiring the store to a lifecycle manager.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	records := []domain.Review{}
	for rows.Next() {
		rev, err := scanPGReview(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rev)
	}
	return records, rows.Err()
}

func scanPGReview(row pgx.Row) (domain.Review, error) {
	var rev domain.Review
	var stars int16
	if err := row.Scan(&rev.ID, &rev.DeviceID, &rev.Barcode, &rev.Content, &stars, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
		return domain.Review{}, err
	}
	rev.StarCount = int(stars)
	rev.CreatedAt = rev.CreatedAt.UTC()
	rev.UpdatedAt = rev.UpdatedAt.UTC()
	return rev, nil
}

var _ ports.ReviewRepository = (*PostgresStore)(nil)
