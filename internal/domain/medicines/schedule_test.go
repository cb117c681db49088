package medicines

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeScheduleTimes(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "dedupe", in: []string{"08:00", "08:00", "20:00"}, want: []string{"08:00", "20:00"}},
		{name: "sorts and pads", in: []string{"20:15", "7:05", " 12:00 "}, want: []string{"07:05", "12:00", "20:15"}},
		{name: "padding collapses duplicates", in: []string{"8:00", "08:00"}, want: []string{"08:00"}},
		{name: "empty", in: nil, want: []string{}},
		{name: "hour out of range", in: []string{"24:00"}, wantErr: true},
		{name: "seconds not allowed", in: []string{"08:00:00"}, wantErr: true},
		{name: "garbage", in: []string{"morning"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeScheduleTimes(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidScheduleTime) {
					t.Fatalf("expected ErrInvalidScheduleTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
