// ABOUTME: Binds plain string values onto entities for the CLI and MCP tools
// ABOUTME: Parses enums, dates and reference ids against a descriptor
package views

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/johanaerens/assetmanagement/models"
)

// BindValues builds a record from string values keyed by field name, for
// callers without a mounted form. Empty values are left null, dates accept
// RFC 3339 or the form layout in loc, and references are bare ids.
func BindValues[T models.Entity](d *models.Descriptor[T], values map[string]string, loc *time.Location) (T, error) {
	var e T
	if loc == nil {
		loc = time.Local
	}
	for name, raw := range values {
		f, ok := d.Field(name)
		if !ok || f.Kind == models.KindID {
			return e, fmt.Errorf("unknown field %q for %s (valid: %s)", name, d.Name, strings.Join(FieldNames(d), ", "))
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		v := models.Value{Kind: f.Kind}
		switch f.Kind {
		case models.KindText:
			v.Text = &raw
		case models.KindEnum:
			if !slices.Contains(f.Options, raw) {
				return e, fmt.Errorf("%s must be one of %s", name, strings.Join(f.Options, ", "))
			}
			v.Text = &raw
		case models.KindTime:
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				v.Time = &t
				break
			}
			t, err := DateTimeToServer(raw, loc)
			if err != nil {
				return e, fmt.Errorf("%s: invalid date %q, expected RFC 3339 or YYYY-MM-DD HH:mm", name, raw)
			}
			v.Time = t
		case models.KindRef:
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return e, fmt.Errorf("%s: invalid id %q", name, raw)
			}
			v.Ref, _ = models.NewRef(f.Related, id)
		}
		f.Set(&e, v)
	}
	return e, nil
}

// FieldNames lists the editable field names of d, sorted.
func FieldNames[T models.Entity](d *models.Descriptor[T]) []string {
	var names []string
	for _, f := range d.Fields {
		if f.Kind != models.KindID {
			names = append(names, f.Name)
		}
	}
	slices.Sort(names)
	return names
}

// SetID stores id in the record's id field.
func SetID[T models.Entity](d *models.Descriptor[T], e *T, id int64) {
	if f, ok := d.Field("id"); ok {
		f.Set(e, models.Value{Kind: models.KindID, ID: &id})
	}
}
