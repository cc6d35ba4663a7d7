package main

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPadRight(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
	}{
		{"short string padded", "vpc-123", 12},
		{"exact width", "subnet-456789", 13},
		{"long string truncated", "vpc-0123456789abcdef0123456789", 10},
		{"empty string", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.in, tt.width)
			if w := runewidth.StringWidth(got); w != tt.width {
				t.Errorf("padRight(%q, %d) has display width %d", tt.in, tt.width, w)
			}
		})
	}
}
