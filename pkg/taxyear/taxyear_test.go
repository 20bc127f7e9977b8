package taxyear

import (
	"testing"
	"time"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		year     int
		expected string
	}{
		{2024, "2024/25"},
		{2025, "2025/26"},
		{2026, "2026/27"},
		{2099, "2099/00"},
		{2000, "2000/01"},
	}

	for _, tt := range tests {
		if result := Label(tt.year); result != tt.expected {
			t.Errorf("Label(%d) = %s; want %s", tt.year, result, tt.expected)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		expected  int
		expectErr bool
	}{
		{"Slash form", "2025/26", 2025, false},
		{"Dash form", "2026-27", 2026, false},
		{"Whitespace", " 2024/25 ", 2024, false},
		{"Century rollover", "2099/00", 2099, false},
		{"Wrong suffix", "2025/27", 0, true},
		{"Missing suffix", "2025", 0, true},
		{"Not a number", "abcd/ef", 0, true},
		{"Empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.label)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %d", tt.label, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.label, err)
			}
			if result != tt.expected {
				t.Errorf("Parse(%q) = %d, expected %d", tt.label, result, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	result, err := Normalize("2026-27")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if result != "2026/27" {
		t.Errorf("Normalize() = %s, expected 2026/27", result)
	}
}

func TestForDate(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{"Last day of tax year", time.Date(2026, time.April, 5, 23, 59, 0, 0, time.UTC), "2025/26"},
		{"First day of tax year", time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC), "2026/27"},
		{"January", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), "2024/25"},
		{"October", time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), "2026/27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ForDate(tt.date); result != tt.expected {
				t.Errorf("ForDate(%v) = %s, expected %s", tt.date, result, tt.expected)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	first, last, err := Bounds("2025/26")
	if err != nil {
		t.Fatalf("Bounds() error = %v", err)
	}
	if got := first.Format(DateLayout); got != "2025-04-06" {
		t.Errorf("first day = %s, expected 2025-04-06", got)
	}
	if got := last.Format(DateLayout); got != "2026-04-05" {
		t.Errorf("last day = %s, expected 2026-04-05", got)
	}

	if _, _, err := Bounds("bad"); err == nil {
		t.Error("expected error for invalid label")
	}
}
