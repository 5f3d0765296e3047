// ABOUTME: Safe SQL query builder for the entity meta table
// ABOUTME: Enforces parameterization and validated identifiers for every store query

package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mai-analytics-api/core/domain"
)

// Table and column name validation - only alphanumeric, underscore allowed
var safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const metaTable = "entity_meta"

// QueryBuilder builds parameterized queries. Invalid identifiers are recorded
// and reported by Build rather than being written into the query.
type QueryBuilder struct {
	query  strings.Builder
	params []interface{}
	err    error
	where  bool
}

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{params: make([]interface{}, 0)}
}

func (qb *QueryBuilder) name(name string) string {
	if qb.err != nil {
		return ""
	}
	if name == "" || len(name) > 64 || !safeNamePattern.MatchString(name) {
		qb.err = fmt.Errorf("invalid identifier %q", name)
		return ""
	}
	return name
}

// Select starts a SELECT of the given columns
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	if len(columns) == 0 {
		qb.err = errors.New("select needs at least one column")
		return qb
	}
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = qb.name(col)
	}
	qb.query.WriteString("SELECT " + strings.Join(names, ", "))
	return qb
}

// From adds FROM clause
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	qb.query.WriteString(" FROM " + qb.name(table))
	return qb
}

// Where adds an equality condition, joined with AND
func (qb *QueryBuilder) Where(column string, value interface{}) *QueryBuilder {
	if qb.where {
		qb.query.WriteString(" AND ")
	} else {
		qb.query.WriteString(" WHERE ")
		qb.where = true
	}
	qb.query.WriteString(qb.name(column) + " = ?")
	qb.params = append(qb.params, value)
	return qb
}

// OrderBy adds an ORDER BY term; desc selects descending order
func (qb *QueryBuilder) OrderBy(column string, desc bool) *QueryBuilder {
	if strings.Contains(qb.query.String(), " ORDER BY ") {
		qb.query.WriteString(", ")
	} else {
		qb.query.WriteString(" ORDER BY ")
	}
	qb.query.WriteString(qb.name(column))
	if desc {
		qb.query.WriteString(" DESC")
	} else {
		qb.query.WriteString(" ASC")
	}
	return qb
}

// Limit adds a parameterized LIMIT
func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	qb.query.WriteString(" LIMIT ?")
	qb.params = append(qb.params, n)
	return qb
}

// InsertOrReplace starts an upsert of one row
func (qb *QueryBuilder) InsertOrReplace(table string, columns []string, values []interface{}) *QueryBuilder {
	if len(columns) != len(values) || len(columns) == 0 {
		qb.err = errors.New("columns and values must match")
		return qb
	}
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		names[i] = qb.name(col)
		placeholders[i] = "?"
	}
	qb.query.WriteString("INSERT OR REPLACE INTO " + qb.name(table) +
		" (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")")
	qb.params = append(qb.params, values...)
	return qb
}

// Build returns the query and its parameters
func (qb *QueryBuilder) Build() (string, []interface{}, error) {
	if qb.err != nil {
		return "", nil, qb.err
	}
	return qb.query.String(), qb.params, nil
}

// validateMetaKey only admits the persisted metric keys
func validateMetaKey(key string) error {
	switch key {
	case domain.KeyViews, domain.KeyTrending, domain.KeyUpdated:
		return nil
	}
	return fmt.Errorf("unknown meta key %q", key)
}

func loadQuery(ref domain.EntityRef) (string, []interface{}, error) {
	return NewQueryBuilder().
		Select("meta_key", "meta_value").
		From(metaTable).
		Where("entity_type", string(ref.Type)).
		Where("entity_id", int64(ref.ID)).
		Build()
}

func upsertQuery(ref domain.EntityRef, key string, value int64) (string, []interface{}, error) {
	if err := validateMetaKey(key); err != nil {
		return "", nil, err
	}
	return NewQueryBuilder().
		InsertOrReplace(metaTable,
			[]string{"entity_type", "entity_id", "meta_key", "meta_value"},
			[]interface{}{string(ref.Type), int64(ref.ID), key, value}).
		Build()
}

func topQuery(entityType domain.EntityType, kind domain.MetricKind, limit int) (string, []interface{}, error) {
	if err := validateMetaKey(kind.MetaKey()); err != nil {
		return "", nil, err
	}
	return NewQueryBuilder().
		Select("entity_id", "meta_value").
		From(metaTable).
		Where("entity_type", string(entityType)).
		Where("meta_key", kind.MetaKey()).
		OrderBy("meta_value", true).
		OrderBy("entity_id", false).
		Limit(limit).
		Build()
}
