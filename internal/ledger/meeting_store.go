package ledger

import (
	"slices"

	"meetbook/internal/models"
)

// MeetingStore is an ordered collection of meetings with unique identities
// (time plus participant set). Every mutation that stores a meeting checks its
// participants against a roster of people, since meetings refer to people by
// name and the roster can change independently.
type MeetingStore struct {
	items []*models.Meeting
}

func NewMeetingStore() *MeetingStore {
	return &MeetingStore{}
}

// Contains reports whether a meeting with the same identity is stored.
func (s *MeetingStore) Contains(m *models.Meeting) bool {
	return slices.ContainsFunc(s.items, m.SameMeeting)
}

// Add appends m if it is new and every participant is in roster.
func (s *MeetingStore) Add(m *models.Meeting, roster []*models.Person) error {
	if s.Contains(m) {
		return ErrDuplicateMeeting
	}
	if err := checkParticipants(m, rosterNames(roster)); err != nil {
		return err
	}
	s.items = append(s.items, m)
	return nil
}

// Set replaces target with edited in place. edited may keep target's
// identity; it may not collide with any other stored meeting.
func (s *MeetingStore) Set(target, edited *models.Meeting, roster []*models.Person) error {
	idx := slices.IndexFunc(s.items, target.SameMeeting)
	if idx == -1 {
		return ErrMeetingNotFound
	}
	if !target.SameMeeting(edited) && s.Contains(edited) {
		return ErrDuplicateMeeting
	}
	if err := checkParticipants(edited, rosterNames(roster)); err != nil {
		return err
	}
	s.items[idx] = edited
	return nil
}

// Remove deletes the stored meeting with m's identity.
func (s *MeetingStore) Remove(m *models.Meeting) error {
	idx := slices.IndexFunc(s.items, m.SameMeeting)
	if idx == -1 {
		return ErrMeetingNotFound
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	return nil
}

// ReplaceAll swaps the whole contents for meetings. Nothing is stored unless
// every meeting is distinct and every participant is in roster.
func (s *MeetingStore) ReplaceAll(meetings []*models.Meeting, roster []*models.Person) error {
	names := rosterNames(roster)
	for i, m := range meetings {
		if slices.ContainsFunc(meetings[i+1:], m.SameMeeting) {
			return ErrDuplicateMeeting
		}
		if err := checkParticipants(m, names); err != nil {
			return err
		}
	}
	s.items = slices.Clone(meetings)
	return nil
}

// All returns the stored meetings in insertion order.
func (s *MeetingStore) All() []*models.Meeting {
	return slices.Clone(s.items)
}

func (s *MeetingStore) Len() int { return len(s.items) }

func rosterNames(roster []*models.Person) map[string]struct{} {
	names := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		names[p.Name().String()] = struct{}{}
	}
	return names
}

// checkParticipants returns a *MissingParticipantError for the first
// participant, in sorted order, that is not a roster name.
func checkParticipants(m *models.Meeting, names map[string]struct{}) error {
	for _, name := range m.Participants() {
		if _, ok := names[name]; !ok {
			return &MissingParticipantError{Name: name}
		}
	}
	return nil
}
