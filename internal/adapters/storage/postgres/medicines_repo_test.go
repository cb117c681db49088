package postgres

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"
)

type stubRow struct {
	vals []any
	err  error
}

func (s stubRow) Scan(dest ...any) error {
	if s.err != nil {
		return s.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(s.vals[i]))
	}
	return nil
}

func TestScanMedicine_DecodesTimesAndDate(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	row := stubRow{vals: []any{
		"m-1", "u-1",
		"Aspirin", "100mg", []byte(`["08:00","20:00"]`),
		sqlNullTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)), "",
		"", "pain", "",
		true,
		created, created,
	}}

	m, err := scanMedicine(row)
	if err != nil {
		t.Fatalf("scanMedicine: %v", err)
	}
	if !reflect.DeepEqual(m.ScheduleTimes, []string{"08:00", "20:00"}) {
		t.Fatalf("unexpected times %#v", m.ScheduleTimes)
	}
	if m.ExpiryDate == nil || m.ExpiryDate.Format("2006-01-02") != "2025-06-01" {
		t.Fatalf("unexpected expiry %v", m.ExpiryDate)
	}
	if m.UsedFor != "pain" || !m.ReminderEnabled {
		t.Fatalf("unexpected record %#v", m)
	}
}

func TestScanMedicine_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := scanMedicine(stubRow{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestEncodeDecodeTimes_EmptyIsArray(t *testing.T) {
	s, err := encodeTimes(nil)
	if err != nil || s != "[]" {
		t.Fatalf("expected [], got %q %v", s, err)
	}
	out, err := decodeTimes(nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v %v", out, err)
	}
	if _, err := decodeTimes([]byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func sqlNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
