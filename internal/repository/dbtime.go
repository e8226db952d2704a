package repository

import (
	"fmt"
	"time"
)

// timeLayout is how timestamps are bound.  MySQL DATETIME accepts it and
// SQLite stores it as text that sorts chronologically.
const timeLayout = "2006-01-02 15:04:05"

var scanLayouts = []string{
	timeLayout,
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func dbTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// timeScanner reads a timestamp column whatever representation the driver
// hands back.
type timeScanner struct{ t *time.Time }

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.t = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		*s.t = time.Time{}
		return nil
	}
	return fmt.Errorf("repository: cannot scan %T into time", src)
}

func (s timeScanner) parse(v string) error {
	for _, layout := range scanLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			*s.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("repository: unrecognized time %q", v)
}

// nullTimeScanner is timeScanner for nullable columns.
type nullTimeScanner struct{ t **time.Time }

func (s nullTimeScanner) Scan(src any) error {
	if src == nil {
		*s.t = nil
		return nil
	}
	var t time.Time
	if err := (timeScanner{&t}).Scan(src); err != nil {
		return err
	}
	*s.t = &t
	return nil
}
