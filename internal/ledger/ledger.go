// Package ledger holds the people and meetings of a meetbook and enforces
// their invariants: unique people, unique meetings, and meetings that only
// name people who are in the ledger.
package ledger

import (
	"fmt"
	"log/slog"

	"meetbook/internal/models"
	"meetbook/internal/view"
)

// Snapshot is the full contents of a ledger, as loaded from or saved to
// storage.
type Snapshot struct {
	Persons  []*models.Person
	Meetings []*models.Meeting
}

// Ledger owns the person and meeting stores and a filtered, sortable view
// over each.
type Ledger struct {
	logger   *slog.Logger
	persons  *PersonStore
	meetings *MeetingStore

	filteredPersons  *view.Projection[*models.Person]
	filteredMeetings *view.Projection[*models.Meeting]
}

// New creates an empty Ledger.
func New(logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Ledger{
		logger:   logger,
		persons:  NewPersonStore(),
		meetings: NewMeetingStore(),
	}
	l.filteredPersons = view.New(l.persons.All)
	l.filteredMeetings = view.New(l.meetings.All)
	return l
}

// Load replaces the ledger's contents with snap. People are loaded first and
// meetings are checked against them; on any error the ledger keeps its
// previous contents.
func (l *Ledger) Load(snap Snapshot) error {
	persons := NewPersonStore()
	if err := persons.ReplaceAll(snap.Persons); err != nil {
		return fmt.Errorf("load persons: %w", err)
	}
	meetings := NewMeetingStore()
	if err := meetings.ReplaceAll(snap.Meetings, persons.All()); err != nil {
		return fmt.Errorf("load meetings: %w", err)
	}
	l.persons.items = persons.items
	l.meetings.items = meetings.items
	l.logger.Debug("Loaded ledger.", "persons", persons.Len(), "meetings", meetings.Len())
	return nil
}

// Snapshot returns the ledger's current contents in backing order.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Persons: l.persons.All(), Meetings: l.meetings.All()}
}

func (l *Ledger) HasPerson(p *models.Person) bool { return l.persons.Contains(p) }

func (l *Ledger) AddPerson(p *models.Person) error {
	if err := l.persons.Add(p); err != nil {
		return err
	}
	l.logger.Debug("Added person.", "name", p.Name())
	return nil
}

func (l *Ledger) SetPerson(target, edited *models.Person) error {
	if err := l.persons.Set(target, edited); err != nil {
		return err
	}
	l.logger.Debug("Replaced person.", "name", target.Name(), "newName", edited.Name())
	return nil
}

// DeletePerson removes p. Meetings naming p are left as they are.
func (l *Ledger) DeletePerson(p *models.Person) error {
	if err := l.persons.Remove(p); err != nil {
		return err
	}
	l.logger.Debug("Deleted person.", "name", p.Name())
	return nil
}

func (l *Ledger) HasMeeting(m *models.Meeting) bool { return l.meetings.Contains(m) }

// AddMeeting stores m, checking its participants against the current people.
func (l *Ledger) AddMeeting(m *models.Meeting) error {
	if err := l.meetings.Add(m, l.persons.All()); err != nil {
		return err
	}
	l.logger.Debug("Added meeting.", "time", m.Time(), "participants", m.Participants())
	return nil
}

// SetMeeting replaces target with edited, checking edited's participants
// against the current people.
func (l *Ledger) SetMeeting(target, edited *models.Meeting) error {
	if err := l.meetings.Set(target, edited, l.persons.All()); err != nil {
		return err
	}
	l.logger.Debug("Replaced meeting.", "time", edited.Time(), "participants", edited.Participants())
	return nil
}

func (l *Ledger) DeleteMeeting(m *models.Meeting) error {
	if err := l.meetings.Remove(m); err != nil {
		return err
	}
	l.logger.Debug("Deleted meeting.", "time", m.Time())
	return nil
}

func (l *Ledger) ReplaceAllPersons(persons []*models.Person) error {
	return l.persons.ReplaceAll(persons)
}

// ReplaceAllMeetings swaps in meetings after checking them against roster,
// which is usually the people loaded alongside them.
func (l *Ledger) ReplaceAllMeetings(meetings []*models.Meeting, roster []*models.Person) error {
	return l.meetings.ReplaceAll(meetings, roster)
}

// Persons returns every person in backing order, ignoring any filter.
func (l *Ledger) Persons() []*models.Person { return l.persons.All() }

// Meetings returns every meeting in backing order, ignoring any filter.
func (l *Ledger) Meetings() []*models.Meeting { return l.meetings.All() }

// FilteredPersons returns the people that pass the person filter, in the
// current sort order.
func (l *Ledger) FilteredPersons() []*models.Person { return l.filteredPersons.Items() }

// FilteredMeetings returns the meetings that pass the meeting filter, in the
// current sort order.
func (l *Ledger) FilteredMeetings() []*models.Meeting { return l.filteredMeetings.Items() }

// SetPersonFilter sets the person filter; nil shows everyone.
func (l *Ledger) SetPersonFilter(pred view.Predicate[*models.Person]) {
	l.filteredPersons.SetFilter(pred)
}

// SetMeetingFilter sets the meeting filter; nil shows every meeting.
func (l *Ledger) SetMeetingFilter(pred view.Predicate[*models.Meeting]) {
	l.filteredMeetings.SetFilter(pred)
}

// SetPersonSort orders the filtered people; nil restores insertion order.
func (l *Ledger) SetPersonSort(cmp view.Comparator[*models.Person]) {
	l.filteredPersons.SetSort(cmp)
}

// SetMeetingSort orders the filtered meetings; nil restores insertion order.
func (l *Ledger) SetMeetingSort(cmp view.Comparator[*models.Meeting]) {
	l.filteredMeetings.SetSort(cmp)
}
