// Package ics converts meetings to and from iCalendar data.
package ics

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"meetbook/internal/models"

	"github.com/emersion/go-ical"
)

const productID = "-//meetbook//EN"

// Options control how meetings are rendered as calendar events.
type Options struct {
	Location *time.Location // zone the meeting wall-clock times are in
	Duration time.Duration  // meetings carry no end time; events last this long
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Duration <= 0 {
		o.Duration = time.Hour
	}
	return o
}

// Calendar wraps a single meeting in a VCALENDAR.
func Calendar(m *models.Meeting, roster []*models.Person, opts Options) *ical.Calendar {
	cal := newCalendar()
	cal.Children = append(cal.Children, Event(m, emailsByName(roster), opts.withDefaults()))
	return cal
}

// Encode writes all meetings as one VCALENDAR to w.
func Encode(w io.Writer, meetings []*models.Meeting, roster []*models.Person, opts Options) error {
	opts = opts.withDefaults()
	emails := emailsByName(roster)
	cal := newCalendar()
	for _, m := range meetings {
		cal.Children = append(cal.Children, Event(m, emails, opts))
	}
	if len(cal.Children) == 0 {
		// an empty VCALENDAR is rejected by the encoder
		return fmt.Errorf("no meetings to export")
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode meetings to iCal format: %w", err)
	}
	return nil
}

// Event renders a meeting as a VEVENT. emails maps participant names to
// addresses; participants without one are listed by name only.
func Event(m *models.Meeting, emails map[string]string, opts Options) *ical.Component {
	start := m.Time().In(opts.Location)
	participants := m.Participants()

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, m.UID())
	ve.Props.SetText(ical.PropSummary, "Meeting with "+strings.Join(participants, ", "))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(opts.Duration))
	if notes := m.Notes().String(); notes != "" {
		ve.Props.SetText(ical.PropDescription, notes)
	}
	for _, name := range participants {
		p := ical.NewProp(ical.PropAttendee)
		p.Params.Set(ical.ParamCommonName, name)
		if email, ok := emails[name]; ok {
			p.Value = "mailto:" + email
		} else {
			p.Value = "urn:meetbook:person:" + url.PathEscape(name)
		}
		ve.Props.Add(p)
	}
	return ve
}

// Decode reads every VEVENT from the calendars in r. Floating times are read
// in loc.
func Decode(r io.Reader, loc *time.Location) ([]*models.Event, error) {
	if loc == nil {
		loc = time.UTC
	}
	dec := ical.NewDecoder(r)
	var events []*models.Event
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		for _, ev := range cal.Events() {
			e, err := toEvent(ev, loc)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		}
	}
	return events, nil
}

func toEvent(ev ical.Event, loc *time.Location) (*models.Event, error) {
	uid, _ := ev.Props.Text(ical.PropUID)
	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("event %q: invalid start time: %w", uid, err)
	}
	end, err := ev.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("event %q: invalid end time: %w", uid, err)
	}
	summary, _ := ev.Props.Text(ical.PropSummary)
	description, _ := ev.Props.Text(ical.PropDescription)
	location, _ := ev.Props.Text(ical.PropLocation)

	e := &models.Event{
		ID:          uid,
		UID:         uid,
		Title:       summary,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		Location:    location,
		Source:      "ics",
	}
	if org := ev.Props.Get(ical.PropOrganizer); org != nil {
		e.Organizer = mailAddress(org.Value)
	}
	for _, p := range ev.Props.Values(ical.PropAttendee) {
		e.Attendees = append(e.Attendees, models.Attendee{
			Email: mailAddress(p.Value),
			Name:  p.Params.Get(ical.ParamCommonName),
		})
	}
	return e, nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	return cal
}

func emailsByName(roster []*models.Person) map[string]string {
	emails := make(map[string]string, len(roster))
	for _, p := range roster {
		emails[p.Name().String()] = p.Email().String()
	}
	return emails
}

func mailAddress(v string) string {
	if len(v) >= len("mailto:") && strings.EqualFold(v[:len("mailto:")], "mailto:") {
		return v[len("mailto:"):]
	}
	return ""
}
