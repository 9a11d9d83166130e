package services

import (
	"testing"

	"github.com/timewell/timewell-backend/internal/types"
)

func TestValidReminderTime(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"00:00", true},
		{"24:00", false},
		{"12:60", false},
		{"9:00", false},
		{"09-00", false},
		{"", false},
		{"morning", false},
	}
	for _, tc := range cases {
		if got := validReminderTime(tc.in); got != tc.want {
			t.Errorf("validReminderTime(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseCoachVoice(t *testing.T) {
	for _, valid := range []string{"motivational", "supportive", "direct", "analytical", "friendly"} {
		got, err := parseCoachVoice(valid)
		if err != nil {
			t.Errorf("parseCoachVoice(%q) errored: %v", valid, err)
		}
		if got != types.CoachVoicePreference(valid) {
			t.Errorf("parseCoachVoice(%q)=%q", valid, got)
		}
	}
	if _, err := parseCoachVoice("yelling"); err == nil {
		t.Error("unknown voice should error")
	}
	if _, err := parseCoachVoice(42); err == nil {
		t.Error("non-string should error")
	}
}

func TestIntFromJSON(t *testing.T) {
	if v, err := intFromJSON(float64(3)); err != nil || v != 3 {
		t.Errorf("float64(3): got %d, %v", v, err)
	}
	if v, err := intFromJSON(5); err != nil || v != 5 {
		t.Errorf("int(5): got %d, %v", v, err)
	}
	if _, err := intFromJSON(2.5); err == nil {
		t.Error("fractional float should error")
	}
	if _, err := intFromJSON("6"); err == nil {
		t.Error("string should error")
	}
}
