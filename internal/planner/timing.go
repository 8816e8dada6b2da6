package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// DefaultStartTime is used when opening hours carry no clock time.
	DefaultStartTime = "10:00"
	// DefaultVisitMinutes is used when a visit duration cannot be read.
	DefaultVisitMinutes = 120
)

var (
	clockPattern   = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*(год|hour)`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(хв|min)`)
)

// StartTimeFrom returns the first HH:MM found in a free-text opening-hours
// field, zero-padded, or DefaultStartTime.
func StartTimeFrom(openingHours string) string {
	m := clockPattern.FindStringSubmatch(openingHours)
	if m == nil {
		return DefaultStartTime
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2])
}

// VisitMinutes reads an hour token and a minute token from a free-text
// duration in Ukrainian or English units. Zero or unreadable durations yield
// DefaultVisitMinutes.
func VisitMinutes(duration string) int {
	total := 0
	if m := hoursPattern.FindStringSubmatch(duration); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n * 60
	}
	if m := minutesPattern.FindStringSubmatch(duration); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
	}
	if total == 0 {
		return DefaultVisitMinutes
	}
	return total
}

// EndTime adds minutes to an HH:MM start time, wrapping past midnight.
func EndTime(start string, minutes int) string {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return start
	}
	total := (t.Hour()*60 + t.Minute() + minutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// VisitDate picks the date for an imported waypoint: the start of the date
// range when it is an ISO date, otherwise today.
func VisitDate(d TripDraft, now time.Time) string {
	if start := d.StartDate(); start != "" {
		if _, err := time.Parse(time.DateOnly, start); err == nil {
			return start
		}
	}
	return now.Format(time.DateOnly)
}
