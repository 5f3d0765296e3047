// ABOUTME: SQLite-backed MetricStore keeping one row per entity meta key
// ABOUTME: A refresh is written inside a single transaction so it is never partially visible

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"mai-analytics-api/core/domain"
	coreerrors "mai-analytics-api/core/errors"
	"mai-analytics-api/core/interfaces"
)

// Store implements interfaces.MetricStore using SQLite
type Store struct {
	db       *sql.DB
	filePath string
	logger   interfaces.Logger
}

// NewStore opens (or creates) the database at filePath
func NewStore(filePath string, logger interfaces.Logger) (*Store, error) {
	if filePath == "" {
		filePath = "mai-analytics.db"
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	db, err := sql.Open("sqlite3", filePath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	s := &Store{db: db, filePath: filePath, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the meta table if it doesn't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS entity_meta (
			entity_type TEXT NOT NULL,
			entity_id INTEGER NOT NULL,
			meta_key TEXT NOT NULL,
			meta_value INTEGER NOT NULL,
			PRIMARY KEY (entity_type, entity_id, meta_key)
		);
		CREATE INDEX IF NOT EXISTS idx_entity_meta_rank ON entity_meta(entity_type, meta_key, meta_value DESC);
	`
	_, err := s.db.Exec(query)
	return err
}

// Load returns the metric of ref, or nil if no meta rows exist
func (s *Store) Load(ctx context.Context, ref domain.EntityRef) (*domain.ViewMetric, error) {
	query, params, err := loadQuery(ref)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric: %w", err)
	}
	defer rows.Close()

	var metric domain.ViewMetric
	found := false
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		found = true
		switch key {
		case domain.KeyViews:
			metric.Views, metric.HasViews = value, true
		case domain.KeyTrending:
			metric.Trending, metric.HasTrending = value, true
		case domain.KeyUpdated:
			metric.Updated = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load metric: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &metric, nil
}

// Save upserts every count and the updated timestamp in one transaction
func (s *Store) Save(ctx context.Context, ref domain.EntityRef, counts domain.RefreshResult, updated int64) (err error) {
	if err := ref.Validate(); err != nil {
		return &coreerrors.ValidationError{Field: "entity", Message: err.Error()}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warn("SQLite rollback failed", map[string]interface{}{
					"entity": ref.String(),
					"error":  rbErr.Error(),
				})
			}
		}
	}()

	values := make(map[string]int64, len(counts)+1)
	for kind, count := range counts {
		values[kind.MetaKey()] = count
	}
	values[domain.KeyUpdated] = updated

	for key, value := range values {
		query, params, qerr := upsertQuery(ref, key, value)
		if qerr != nil {
			return qerr
		}
		if _, err = tx.ExecContext(ctx, query, params...); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metric: %w", err)
	}
	return nil
}

// Top ranks entities by the stored count of kind
func (s *Store) Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	query, params, err := topQuery(entityType, kind, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank entities: %w", err)
	}
	defer rows.Close()

	ranked := make([]domain.RankedEntity, 0, limit)
	for rows.Next() {
		var id, count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		ranked = append(ranked, domain.RankedEntity{
			Ref:   domain.EntityRef{Type: entityType, ID: uint64(id)},
			Count: count,
		})
	}
	return ranked, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats returns store statistics
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var entities int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM (SELECT DISTINCT entity_type, entity_id FROM entity_meta)").Scan(&entities)
	if err != nil {
		return nil, err
	}
	stats["entities"] = entities

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}
	stats["file_path"] = s.filePath

	return stats, nil
}
