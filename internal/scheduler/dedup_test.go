package scheduler

import (
	"testing"
	"time"
)

func TestShouldSuppress(t *testing.T) {
	now := time.Date(2024, time.June, 1, 8, 0, 30, 0, time.UTC)

	cases := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"never sent", nil, false},
		{"30s ago", ptr(now.Add(-30 * time.Second)), true},
		{"59s ago", ptr(now.Add(-59 * time.Second)), true},
		{"60s ago", ptr(now.Add(-60 * time.Second)), false},
		{"61s ago", ptr(now.Add(-61 * time.Second)), false},
		{"an hour ago", ptr(now.Add(-time.Hour)), false},
	}
	for _, c := range cases {
		if got := ShouldSuppress(c.last, now); got != c.want {
			t.Errorf("%s: ShouldSuppress = %v, want %v", c.name, got, c.want)
		}
	}
}

func ptr(t time.Time) *time.Time { return &t }
