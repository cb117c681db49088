package medicines

import (
	"strings"
	"testing"
	"time"
)

func TestMedicine_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name     string
		expiry   *time.Time
		want     ExpiryStatus
		wantDays int
	}{
		{name: "no date", expiry: nil, want: ExpiryNone},
		{name: "yesterday", expiry: day(2025, 6, 9), want: ExpiryExpired, wantDays: -1},
		{name: "today", expiry: day(2025, 6, 10), want: ExpiryExpiringSoon, wantDays: 0},
		{name: "in seven days", expiry: day(2025, 6, 17), want: ExpiryExpiringSoon, wantDays: 7},
		{name: "in eight days", expiry: day(2025, 6, 18), want: ExpiryOK, wantDays: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, days := Medicine{ExpiryDate: tt.expiry}.Expiry(now)
			if st != tt.want {
				t.Fatalf("status: got %s want %s", st, tt.want)
			}
			if tt.expiry == nil {
				if days != nil {
					t.Fatalf("expected nil days")
				}
				return
			}
			if days == nil || *days != tt.wantDays {
				t.Fatalf("days: got %v want %d", days, tt.wantDays)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	soon := now.AddDate(0, 0, 2)

	items := []Medicine{
		{Name: "a", ExpiryDate: &past, ReminderEnabled: true, ScheduleTimes: []string{"08:00"}},
		{Name: "b", ExpiryDate: &soon, ReminderEnabled: true},
		{Name: "c", ReminderEnabled: false, ScheduleTimes: []string{"09:00"}},
	}

	got := ComputeStats(items, now)
	want := Stats{Total: 3, ExpiringSoon: 1, Expired: 1, ActiveReminders: 1}
	if got != want {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestMatchesAndOrderLinks(t *testing.T) {
	m := Medicine{Name: "Vitamin D", Dosage: "1000 IU"}
	if !m.Matches("vitamin") || !m.Matches("iu") || m.Matches("zinc") {
		t.Fatalf("unexpected Matches results")
	}

	links := OrderLinks("Vitamin D")
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for _, l := range links {
		if !strings.HasSuffix(l.URL, "Vitamin%20D") {
			t.Fatalf("expected encoded name in %s", l.URL)
		}
	}
}
