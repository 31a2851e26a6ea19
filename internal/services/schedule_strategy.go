// Package services provides business logic and orchestration services.
//
// This file implements the strategy registry for recurring rule scheduling.
// Each frequency (weekly, biweekly, monthly) has its own advancer that
// encapsulates how a due date moves to the next occurrence.

package services

import (
	"fmt"
	"time"

	"github.com/James-hg/MountMadness2026/internal/core"
)

// ScheduleAdvancer is the strategy interface for advancing a recurring
// rule's due date. Each implementation encapsulates the algorithm for a
// specific frequency.
type ScheduleAdvancer interface {
	// NextDue returns the occurrence that follows current. The rule's
	// anchor date is passed so month-based frequencies can re-anchor to
	// the original day of month.
	NextDue(current, anchor time.Time) time.Time
}

// WeeklyAdvancer implements ScheduleAdvancer for weekly rules.
type WeeklyAdvancer struct{}

// NextDue returns the date seven days after current.
func (WeeklyAdvancer) NextDue(current, _ time.Time) time.Time {
	return current.AddDate(0, 0, 7)
}

// BiweeklyAdvancer implements ScheduleAdvancer for biweekly rules.
type BiweeklyAdvancer struct{}

// NextDue returns the date fourteen days after current.
func (BiweeklyAdvancer) NextDue(current, _ time.Time) time.Time {
	return current.AddDate(0, 0, 14)
}

// MonthlyAdvancer implements ScheduleAdvancer for monthly rules.
type MonthlyAdvancer struct{}

// NextDue returns the anchor's day of month in the month after current,
// clamped to that month's length. Re-anchoring means a rule anchored on
// the 31st lands on Feb 28 (or 29) and returns to the 31st in March.
func (MonthlyAdvancer) NextDue(current, anchor time.Time) time.Time {
	year, month := current.Year(), current.Month()+1

	targetDay := anchor.Day()
	lastDayOfMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}

	return time.Date(year, month, targetDay, 0, 0, 0, 0, time.UTC)
}

// scheduleStrategies maps frequencies to their corresponding advancers.
// This registry enables O(1) lookup and easy extension for new frequencies.
var scheduleStrategies = map[core.Frequency]ScheduleAdvancer{
	core.Weekly:   WeeklyAdvancer{},
	core.Biweekly: BiweeklyAdvancer{},
	core.Monthly:  MonthlyAdvancer{},
}

// GetScheduleAdvancer returns the advancer for a frequency. Returns an
// error wrapping core.ErrInvalidFrequency when the frequency is not
// supported.
func GetScheduleAdvancer(frequency core.Frequency) (ScheduleAdvancer, error) {
	advancer, ok := scheduleStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency %q: %w", frequency, core.ErrInvalidFrequency)
	}
	return advancer, nil
}

// RegisterScheduleAdvancer allows registering custom advancers for new
// frequencies without modifying the registry.
func RegisterScheduleAdvancer(frequency core.Frequency, advancer ScheduleAdvancer) {
	scheduleStrategies[frequency] = advancer
}
