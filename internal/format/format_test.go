package format

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.1, "0.1"},
		{0, "0"},
		{100, "100"},
		{0.49999999999999994, "0.5"},
		{1.0 / 3.0, "0.3333333333"},
		{-2.5, "-2.5"},
		{1e-12, "1.0000000000e-12"},
		{123456789012, "1.2345678901e+11"},
		{1e10, "10000000000"},
		{-1e-11, "-1.0000000000e-11"},
		{math.Inf(1), "Infinity"},
		{math.NaN(), "NaN"},
		{-1e-15 + 1e-15, "0"},
	}
	for _, tt := range tests {
		if got := Default(tt.in); got != tt.want {
			t.Errorf("Default(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumberPrecision(t *testing.T) {
	if got := Number(3.14159, 2); got != "3.14" {
		t.Errorf("Number(3.14159, 2) = %q", got)
	}
	if got := Number(-0.0001, 2); got != "0" {
		t.Errorf("Number(-0.0001, 2) = %q", got)
	}
}

func TestValidNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"100", true},
		{" 2.5 ", true},
		{"-1e3", true},
		{"", false},
		{"abc", false},
		{"Inf", false},
		{"NaN", false},
		{"12abc", false},
	}
	for _, tt := range tests {
		if got := ValidNumber(tt.in); got != tt.want {
			t.Errorf("ValidNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)
	if got := Timestamp(ts); got != "04/03/2025 05:06:07" {
		t.Errorf("Timestamp = %q", got)
	}
}

func TestStamp(t *testing.T) {
	ts := time.Now().Add(-2 * time.Hour)
	want := Timestamp(ts) + " (2 hours ago)"
	if got := Stamp(ts); got != want {
		t.Errorf("Stamp = %q, want %q", got, want)
	}
	if got := Stamp(time.Time{}); got != "unknown time" {
		t.Errorf("Stamp(zero) = %q", got)
	}
}

func TestRelative(t *testing.T) {
	got := Relative(time.Now().Add(-3 * time.Minute))
	if !strings.Contains(got, "minutes ago") {
		t.Errorf("Relative = %q", got)
	}
}
