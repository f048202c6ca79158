package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// MeetingTimeLayouts are the accepted input layouts, tried in order.
// The first layout is also the canonical rendering.
var MeetingTimeLayouts = []string{
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
}

const meetingTimeConstraints = "must be one of yyyy-MM-dd HH:mm, dd/MM/yyyy HH:mm or MM/dd/yyyy HH:mm"

// MeetingTime is the calendar date and wall-clock minute a meeting starts at.
type MeetingTime struct {
	t time.Time
}

// ParseMeetingTime parses s against MeetingTimeLayouts. The first layout that
// accepts the input wins, so "04/01/2024 14:30" is the 4th of January. A day
// past the end of its month is clamped to the last day, so "2024-02-30 10:00"
// is the 29th of February; days outside 1-31 are rejected.
func ParseMeetingTime(s string) (MeetingTime, error) {
	for _, layout := range MeetingTimeLayouts {
		if t, ok := parseClamped(layout, s); ok {
			return MeetingTime{t: t}, nil
		}
	}
	return MeetingTime{}, invalid("meeting time", s, meetingTimeConstraints)
}

func parseClamped(layout, s string) (time.Time, bool) {
	t, err := time.Parse(layout, s)
	if err == nil {
		return t, true
	}
	var perr *time.ParseError
	if !errors.As(err, &perr) || perr.Message != ": day out of range" {
		return time.Time{}, false
	}

	// Every field before the day is fixed width, so the day sits at the same
	// offset in s as in layout.
	i := strings.Index(layout, "02")
	if i < 0 || len(s) < i+2 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(s[i : i+2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	first, err := time.Parse(layout, s[:i]+"01"+s[i+2:])
	if err != nil {
		return time.Time{}, false
	}
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(day, last)-1), true
}

// MeetingTimeOf keeps the wall-clock reading of t in its own location,
// truncated to the minute.
func MeetingTimeOf(t time.Time) MeetingTime {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return MeetingTime{t: wall}
}

// Time returns the meeting time as a UTC-based wall-clock value.
func (m MeetingTime) Time() time.Time { return m.t }

// In places the wall-clock reading in loc.
func (m MeetingTime) In(loc *time.Location) time.Time {
	return time.Date(m.t.Year(), m.t.Month(), m.t.Day(), m.t.Hour(), m.t.Minute(), 0, 0, loc)
}

func (m MeetingTime) Equal(other MeetingTime) bool { return m.t.Equal(other.t) }

// Compare orders meeting times chronologically.
func (m MeetingTime) Compare(other MeetingTime) int { return m.t.Compare(other.t) }

func (m MeetingTime) String() string { return m.t.Format(MeetingTimeLayouts[0]) }
