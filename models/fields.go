// ABOUTME: Generic field descriptors shared by all entity types
// ABOUTME: Provides typed accessors, null-first comparison and patch merging
package models

import (
	"cmp"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	KindID Kind = iota
	KindText
	KindTime
	KindEnum
	KindRef
)

// Value is a single field value lifted out of an entity. Exactly one of the
// payload fields is meaningful, selected by Kind; nil means the field is null.
type Value struct {
	Kind Kind
	ID   *int64
	Text *string
	Time *time.Time
	Ref  Entity
}

func (v Value) IsNull() bool {
	switch v.Kind {
	case KindID:
		return v.ID == nil
	case KindText, KindEnum:
		return v.Text == nil
	case KindTime:
		return v.Time == nil
	case KindRef:
		return v.Ref == nil
	}
	return true
}

// RefID returns the id of the referenced entity, or nil.
func (v Value) RefID() *int64 {
	if v.Ref == nil {
		return nil
	}
	return v.Ref.EntityID()
}

// String renders the value for plain-text output. Times use RFC 3339 in UTC.
func (v Value) String() string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind {
	case KindID:
		return strconv.FormatInt(*v.ID, 10)
	case KindText, KindEnum:
		return *v.Text
	case KindTime:
		return v.Time.UTC().Format(time.RFC3339)
	case KindRef:
		if id := v.RefID(); id != nil {
			return strconv.FormatInt(*id, 10)
		}
	}
	return ""
}

// CompareValues orders two values of the same kind. Null sorts before any
// non-null value, text compares bytewise, times chronologically and
// references by the id of the referenced entity.
func CompareValues(a, b Value) int {
	an, bn := a.IsNull(), b.IsNull()
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}

	switch a.Kind {
	case KindID:
		return cmp.Compare(*a.ID, *b.ID)
	case KindText, KindEnum:
		return strings.Compare(*a.Text, *b.Text)
	case KindTime:
		return a.Time.Compare(*b.Time)
	case KindRef:
		return compareIDs(a.RefID(), b.RefID())
	}
	return 0
}

func compareIDs(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

// Field describes one attribute of an entity type.
type Field[T any] struct {
	Name    string // JSON property, also the sort key
	Label   string
	Column  string
	Kind    Kind
	Options []string // enum symbols, in declaration order
	Default string   // enum value preselected on new forms
	Related string   // entity name for references
	Get     func(T) Value
	Set     func(*T, Value)
}

// Descriptor ties an entity type to its endpoint, table and field list.
type Descriptor[T Entity] struct {
	Name   string
	Plural string
	Title  string
	Path   string
	Table  string
	Fields []Field[T]
}

func (d *Descriptor[T]) Field(name string) (Field[T], bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Compare orders a and b by the named field. ok is false for unknown fields.
func (d *Descriptor[T]) Compare(field string, a, b T) (c int, ok bool) {
	f, ok := d.Field(field)
	if !ok {
		return 0, false
	}
	return CompareValues(f.Get(a), f.Get(b)), true
}

// Merge copies every non-null, non-id field of patch onto dst.
func (d *Descriptor[T]) Merge(dst *T, patch T) {
	for _, f := range d.Fields {
		if f.Kind == KindID {
			continue
		}
		if v := f.Get(patch); !v.IsNull() {
			f.Set(dst, v)
		}
	}
}

// Defaults returns a new record with enum fields preset to their defaults.
func (d *Descriptor[T]) Defaults() T {
	var e T
	for _, f := range d.Fields {
		if f.Kind == KindEnum && f.Default != "" {
			f.Set(&e, Value{Kind: KindEnum, Text: Ptr(f.Default)})
		}
	}
	return e
}

func idField[T any](p func(*T) **int64) Field[T] {
	return Field[T]{
		Name:   "id",
		Label:  "ID",
		Column: "id",
		Kind:   KindID,
		Get:    func(e T) Value { return Value{Kind: KindID, ID: *p(&e)} },
		Set:    func(e *T, v Value) { *p(e) = v.ID },
	}
}

func textField[T any](name, label, column string, p func(*T) **string) Field[T] {
	return Field[T]{
		Name:   name,
		Label:  label,
		Column: column,
		Kind:   KindText,
		Get:    func(e T) Value { return Value{Kind: KindText, Text: *p(&e)} },
		Set:    func(e *T, v Value) { *p(e) = v.Text },
	}
}

func timeField[T any](name, label, column string, p func(*T) **time.Time) Field[T] {
	return Field[T]{
		Name:   name,
		Label:  label,
		Column: column,
		Kind:   KindTime,
		Get:    func(e T) Value { return Value{Kind: KindTime, Time: *p(&e)} },
		Set:    func(e *T, v Value) { *p(e) = v.Time },
	}
}

func enumField[T any, E ~string](name, label, column string, options []E, def E, p func(*T) **E) Field[T] {
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = string(o)
	}
	return Field[T]{
		Name:    name,
		Label:   label,
		Column:  column,
		Kind:    KindEnum,
		Options: opts,
		Default: string(def),
		Get: func(e T) Value {
			ev := *p(&e)
			if ev == nil {
				return Value{Kind: KindEnum}
			}
			return Value{Kind: KindEnum, Text: Ptr(string(*ev))}
		},
		Set: func(e *T, v Value) {
			if v.Text == nil {
				*p(e) = nil
				return
			}
			*p(e) = Ptr(E(*v.Text))
		},
	}
}

func refField[T any, R Entity](name, label, column, related string, p func(*T) **R) Field[T] {
	return Field[T]{
		Name:    name,
		Label:   label,
		Column:  column,
		Kind:    KindRef,
		Related: related,
		Get: func(e T) Value {
			r := *p(&e)
			if r == nil {
				return Value{Kind: KindRef}
			}
			return Value{Kind: KindRef, Ref: *r}
		},
		Set: func(e *T, v Value) {
			switch r := any(v.Ref).(type) {
			case R:
				*p(e) = &r
			case *R:
				*p(e) = r
			default:
				*p(e) = nil
			}
		},
	}
}
