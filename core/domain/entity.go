// ABOUTME: Entity domain model identifies the content item or taxonomy term owning view metrics
// ABOUTME: Provides parsing and validation of entity types and references

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EntityType is the kind of content entity that owns a ViewMetric
type EntityType string

const (
	// EntityPost is a post of any post type
	EntityPost EntityType = "post"

	// EntityTerm is a taxonomy term
	EntityTerm EntityType = "term"
)

// ParseEntityType normalizes a raw type string, returning an error for unknown types
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(strings.ToLower(strings.TrimSpace(raw))) {
	case EntityPost:
		return EntityPost, nil
	case EntityTerm:
		return EntityTerm, nil
	case "":
		return "", errors.New("entity type cannot be empty")
	default:
		return "", fmt.Errorf("unknown entity type %q", raw)
	}
}

// EntityRef identifies a single post or term
type EntityRef struct {
	// Type is post or term
	Type EntityType

	// ID is the positive entity identifier
	ID uint64
}

// Validate checks the reference identifies a storable entity
func (r EntityRef) Validate() error {
	if r.Type != EntityPost && r.Type != EntityTerm {
		return fmt.Errorf("invalid entity type %q", r.Type)
	}
	if r.ID == 0 {
		return errors.New("entity id must be positive")
	}
	return nil
}

// String renders the reference as type:id
func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}
