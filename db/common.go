// ABOUTME: Shared repository helpers for entity tables
// ABOUTME: Timestamp encoding, whitelisted ORDER BY building and error mapping
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidSort      = errors.New("invalid sort property")
	ErrUnknownReference = errors.New("referenced entity does not exist")
)

// FilterAssetHistoryIsNull selects assets or employees that no asset
// history row points at.
const FilterAssetHistoryIsNull = "assethistory-is-null"

// Fixed-width UTC layout so that stored timestamps sort lexically in
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type SortOrder struct {
	Field string
	Desc  bool
}

type ListOptions struct {
	Sort   []SortOrder
	Filter string
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s.String)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", s.String, err)
		}
	}
	t = t.UTC()
	return &t, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func refID[T models.Entity](ref *T) any {
	if ref == nil {
		return nil
	}
	if id := (*ref).EntityID(); id != nil {
		return *id
	}
	return nil
}

func enumText[E ~string](e *E) any {
	if e == nil {
		return nil
	}
	return string(*e)
}

// orderBy builds an ORDER BY clause from sort orders, accepting only fields
// the descriptor knows. Ties always fall back to id ascending.
func orderBy[T models.Entity](d *models.Descriptor[T], alias string, sorts []SortOrder) (string, error) {
	var terms []string
	for _, s := range sorts {
		f, ok := d.Field(s.Field)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidSort, s.Field)
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		terms = append(terms, fmt.Sprintf("%s.%s %s", alias, f.Column, dir))
	}
	terms = append(terms, alias+".id ASC")
	return " ORDER BY " + strings.Join(terms, ", "), nil
}

// mapWriteError turns driver constraint failures into repository errors.
func mapWriteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return fmt.Errorf("%w: %v", ErrUnknownReference, err)
	}
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
