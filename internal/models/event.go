package models

import "time"

// Attendee is someone invited to an external calendar event.
type Attendee struct {
	Email string
	Name  string // display name, may be empty
}

// Event is a calendar event read from an external calendar (Google, an .ics
// file). It is not stored in the ledger; the syncer turns events into
// Meetings by matching attendees against the person roster.
type Event struct {
	ID          string // identifier in the source calendar
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Organizer   string // organizer email
	Attendees   []Attendee
	Source      string // e.g. "google-primary" or "ics"
	UID         string // iCalendar UID
}
