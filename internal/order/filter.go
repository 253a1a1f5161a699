package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/order-admin/internal"
)

// Layouts accepted for order dates and filter bounds.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

// OrderFilter narrows GET /orders. The date range applies only when both
// bounds are set. Representative matches the representative name exactly, or
// the legacy numeric userId when the value is a number.
type OrderFilter struct {
	StartDate      string
	EndDate        string
	Representative string
}

func (f OrderFilter) hasRepresentative() bool {
	switch strings.TrimSpace(f.Representative) {
	case "", "null", "undefined":
		return false
	}
	return true
}

// Predicate compiles the filter. It returns nil when nothing filters.
func (f OrderFilter) Predicate() (func(Order) bool, error) {
	var preds []func(Order) bool

	if f.StartDate != "" && f.EndDate != "" {
		start, _, err := parseDate(f.StartDate)
		if err != nil {
			return nil, internal.NewValidationFieldError("startDate", "Geçersiz başlangıç tarihi", internal.ErrCodeValidationFailed)
		}
		end, dateOnly, err := parseDate(f.EndDate)
		if err != nil {
			return nil, internal.NewValidationFieldError("endDate", "Geçersiz bitiş tarihi", internal.ErrCodeValidationFailed)
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		preds = append(preds, func(o Order) bool {
			d, _, err := parseDate(o.OrderDate)
			if err != nil {
				return false
			}
			return !d.Before(start) && !d.After(end)
		})
	}

	if f.hasRepresentative() {
		name := f.Representative
		legacyID, numErr := strconv.ParseInt(strings.TrimSpace(name), 10, 64)
		preds = append(preds, func(o Order) bool {
			if o.Representative == name {
				return true
			}
			return numErr == nil && o.UserID != nil && *o.UserID == legacyID
		})
	}

	if len(preds) == 0 {
		return nil, nil
	}
	return func(o Order) bool {
		for _, p := range preds {
			if !p(o) {
				return false
			}
		}
		return true
	}, nil
}

// parseDate reads s in any accepted layout. dateOnly reports a value with
// no time of day.
func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err = time.Parse(layout, s)
		if err == nil {
			return t.UTC(), !strings.Contains(layout, "15"), nil
		}
	}
	return time.Time{}, false, err
}
