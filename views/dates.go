// ABOUTME: Conversion between server timestamps and local form input strings
// ABOUTME: Forms edit "YYYY-MM-DD HH:mm" in local time; the server stores UTC
package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johanaerens/assetmanagement/models"
)

const DateTimeLayout = "2006-01-02 15:04"

// DisplayDefaultDateTime is the value new forms show for date fields.
func DisplayDefaultDateTime(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateTimeLayout)
}

func DateTimeFromServer(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(DateTimeLayout)
}

// DateTimeToServer parses a local form value. Empty input means null.
func DateTimeToServer(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD HH:mm", s)
	}
	t = t.UTC()
	return &t, nil
}

// FormatValue renders a field value for lists and detail pages.
// References show the id of the related record.
func FormatValue(v models.Value, loc *time.Location) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind {
	case models.KindTime:
		return DateTimeFromServer(v.Time, loc)
	case models.KindRef:
		if id := v.RefID(); id != nil {
			return strconv.FormatInt(*id, 10)
		}
		return ""
	}
	return v.String()
}
