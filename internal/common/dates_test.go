package common

import (
	"strings"
	"testing"
	"time"
)

func TestParseTradeDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"20260211", false},
		{"20260230", true},
		{"2026-02-11", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseTradeDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTradeDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestIsTradingDay(t *testing.T) {
	holidays := []string{"20260216"}
	tests := []struct {
		date string
		want bool
	}{
		{"20260211", true},  // Wednesday
		{"20260214", false}, // Saturday
		{"20260215", false}, // Sunday
		{"20260216", false}, // holiday
		{"20260217", true},
	}
	for _, tt := range tests {
		d, _ := time.Parse(DateLayout, tt.date)
		if got := IsTradingDay(d, holidays); got != tt.want {
			t.Errorf("IsTradingDay(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestTodayAndRunID(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Skip("time zone database unavailable")
	}
	if got := Today(loc); len(got) != 8 {
		t.Errorf("Today() = %q, want YYYYMMDD", got)
	}
	if id := NewRunID(); !strings.HasPrefix(id, "run_") || len(id) != len("run_")+36 {
		t.Errorf("NewRunID() = %q", id)
	}
}
