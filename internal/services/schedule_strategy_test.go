package services

import (
	"errors"
	"testing"
	"time"

	"github.com/James-hg/MountMadness2026/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeeklyAdvancer_NextDue(t *testing.T) {
	advancer := WeeklyAdvancer{}
	anchor := date(2026, time.January, 5)

	tests := []struct {
		name    string
		current time.Time
		want    time.Time
	}{
		{
			name:    "plain week step",
			current: date(2026, time.January, 5),
			want:    date(2026, time.January, 12),
		},
		{
			name:    "crosses month boundary",
			current: date(2026, time.January, 28),
			want:    date(2026, time.February, 4),
		},
		{
			name:    "crosses year boundary",
			current: date(2025, time.December, 29),
			want:    date(2026, time.January, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advancer.NextDue(tt.current, anchor)
			if !got.Equal(tt.want) {
				t.Errorf("WeeklyAdvancer.NextDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBiweeklyAdvancer_NextDue(t *testing.T) {
	advancer := BiweeklyAdvancer{}
	anchor := date(2026, time.January, 2)

	tests := []struct {
		name    string
		current time.Time
		want    time.Time
	}{
		{
			name:    "plain two week step",
			current: date(2026, time.January, 2),
			want:    date(2026, time.January, 16),
		},
		{
			name:    "crosses month boundary",
			current: date(2026, time.January, 23),
			want:    date(2026, time.February, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advancer.NextDue(tt.current, anchor)
			if !got.Equal(tt.want) {
				t.Errorf("BiweeklyAdvancer.NextDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyAdvancer_NextDue(t *testing.T) {
	advancer := MonthlyAdvancer{}

	tests := []struct {
		name    string
		current time.Time
		anchor  time.Time
		want    time.Time
	}{
		{
			name:    "plain month step",
			current: date(2026, time.March, 15),
			anchor:  date(2026, time.January, 15),
			want:    date(2026, time.April, 15),
		},
		{
			name:    "anchor day 31 clamps to February",
			current: date(2026, time.January, 31),
			anchor:  date(2026, time.January, 31),
			want:    date(2026, time.February, 28),
		},
		{
			name:    "anchor day 31 clamps to leap February",
			current: date(2028, time.January, 31),
			anchor:  date(2028, time.January, 31),
			want:    date(2028, time.February, 29),
		},
		{
			name:    "re-anchors to day 31 after clamped month",
			current: date(2026, time.February, 28),
			anchor:  date(2026, time.January, 31),
			want:    date(2026, time.March, 31),
		},
		{
			name:    "anchor day 30 clamps then recovers",
			current: date(2026, time.February, 28),
			anchor:  date(2025, time.November, 30),
			want:    date(2026, time.March, 30),
		},
		{
			name:    "crosses year boundary",
			current: date(2025, time.December, 10),
			anchor:  date(2025, time.June, 10),
			want:    date(2026, time.January, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advancer.NextDue(tt.current, tt.anchor)
			if !got.Equal(tt.want) {
				t.Errorf("MonthlyAdvancer.NextDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetScheduleAdvancer(t *testing.T) {
	tests := []struct {
		name      string
		frequency core.Frequency
		wantErr   bool
	}{
		{"weekly", core.Weekly, false},
		{"biweekly", core.Biweekly, false},
		{"monthly", core.Monthly, false},
		{"unknown", core.Frequency("daily"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advancer, err := GetScheduleAdvancer(tt.frequency)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetScheduleAdvancer() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, core.ErrInvalidFrequency) {
				t.Errorf("GetScheduleAdvancer() error = %v, want ErrInvalidFrequency", err)
			}
			if !tt.wantErr && advancer == nil {
				t.Error("GetScheduleAdvancer() returned nil advancer")
			}
		})
	}
}

func TestRegisterScheduleAdvancer(t *testing.T) {
	customFreq := core.Frequency("quarterly")

	RegisterScheduleAdvancer(customFreq, MonthlyAdvancer{})

	advancer, err := GetScheduleAdvancer(customFreq)
	if err != nil {
		t.Errorf("GetScheduleAdvancer() after register error = %v", err)
	}
	if advancer == nil {
		t.Error("GetScheduleAdvancer() returned nil after registration")
	}

	// Cleanup - remove the custom advancer to avoid affecting other tests
	delete(scheduleStrategies, customFreq)
}
