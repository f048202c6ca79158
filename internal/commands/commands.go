// Package commands is the command layer over a ledger: it resolves list
// indices, merges edit descriptors and checks the rules that apply to edited
// entities before handing them to the ledger.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"meetbook/internal/edit"
	"meetbook/internal/ledger"
	"meetbook/internal/models"
	"meetbook/internal/query"
	"meetbook/internal/view"
)

// ErrInvalidIndex is returned for a list index outside the displayed list.
var ErrInvalidIndex = errors.New("invalid index")

// Service runs user commands against a Ledger.
type Service struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

func NewService(l *ledger.Ledger, logger *slog.Logger) *Service {
	return &Service{ledger: l, logger: logger}
}

// Ledger returns the ledger the service operates on.
func (s *Service) Ledger() *ledger.Ledger { return s.ledger }

func (s *Service) AddPerson(p *models.Person) error {
	if err := s.ledger.AddPerson(p); err != nil {
		return fmt.Errorf("add person %s: %w", p.Name(), err)
	}
	s.logger.Info("Added person.", "name", p.Name())
	return nil
}

// EditPerson merges d onto the person at the 1-based index of the displayed
// person list.
func (s *Service) EditPerson(index int, d edit.PersonDescriptor) (*models.Person, error) {
	if !d.IsAnyFieldEdited() {
		return nil, edit.ErrNoFieldsEdited
	}
	target, err := pick(s.ledger.FilteredPersons(), index, "person")
	if err != nil {
		return nil, err
	}
	edited := edit.MergePerson(target, d)
	if err := s.ledger.SetPerson(target, edited); err != nil {
		return nil, fmt.Errorf("edit person %s: %w", target.Name(), err)
	}
	s.ledger.SetPersonFilter(nil)
	s.logger.Info("Edited person.", "name", edited.Name())
	return edited, nil
}

// DeletePerson removes the person at the 1-based index of the displayed
// person list. Meetings naming that person are kept.
func (s *Service) DeletePerson(index int) (*models.Person, error) {
	target, err := pick(s.ledger.FilteredPersons(), index, "person")
	if err != nil {
		return nil, err
	}
	if err := s.ledger.DeletePerson(target); err != nil {
		return nil, fmt.Errorf("delete person %s: %w", target.Name(), err)
	}
	s.logger.Info("Deleted person.", "name", target.Name())
	return target, nil
}

// ListPersons clears the person filter.
func (s *Service) ListPersons() []*models.Person {
	s.ledger.SetPersonFilter(nil)
	return s.ledger.FilteredPersons()
}

// Find shows people whose name or company contains one of the keywords.
func (s *Service) Find(nameKeywords, companyKeywords []string) []*models.Person {
	s.ledger.SetPersonFilter(query.PersonKeywords(nameKeywords, companyKeywords))
	return s.ledger.FilteredPersons()
}

// FilterByTag shows people with a tag containing term.
func (s *Service) FilterByTag(term string) []*models.Person {
	s.ledger.SetPersonFilter(query.PersonTag(term))
	return s.ledger.FilteredPersons()
}

// SortPersons orders the displayed people by field ("name" or "importance")
// in order ("asc" or "desc").
func (s *Service) SortPersons(field, order string) ([]*models.Person, error) {
	cmp, err := query.PersonSort(field, order)
	if err != nil {
		return nil, err
	}
	s.ledger.SetPersonSort(cmp)
	return s.ledger.FilteredPersons(), nil
}

func (s *Service) AddMeeting(m *models.Meeting) error {
	if len(m.Participants()) == 0 {
		return edit.ErrEmptyParticipantSet
	}
	if err := s.ledger.AddMeeting(m); err != nil {
		return fmt.Errorf("add meeting at %s: %w", m.Time(), err)
	}
	s.logger.Info("Added meeting.", "time", m.Time(), "participants", m.Participants())
	return nil
}

// EditMeeting merges d onto the meeting at the 1-based index of the displayed
// meeting list.
func (s *Service) EditMeeting(index int, d edit.MeetingDescriptor) (*models.Meeting, error) {
	if !d.IsAnyFieldEdited() {
		return nil, edit.ErrNoFieldsEdited
	}
	target, err := pick(s.ledger.FilteredMeetings(), index, "meeting")
	if err != nil {
		return nil, err
	}
	edited := edit.MergeMeeting(target, d)
	if len(edited.Participants()) == 0 {
		return nil, edit.ErrEmptyParticipantSet
	}
	if err := s.ledger.SetMeeting(target, edited); err != nil {
		return nil, fmt.Errorf("edit meeting at %s: %w", target.Time(), err)
	}
	s.ledger.SetPersonFilter(nil)
	s.logger.Info("Edited meeting.", "time", edited.Time(), "participants", edited.Participants())
	return edited, nil
}

// DeleteMeeting removes the meeting at the 1-based index of the displayed
// meeting list.
func (s *Service) DeleteMeeting(index int) (*models.Meeting, error) {
	target, err := pick(s.ledger.FilteredMeetings(), index, "meeting")
	if err != nil {
		return nil, err
	}
	if err := s.ledger.DeleteMeeting(target); err != nil {
		return nil, fmt.Errorf("delete meeting at %s: %w", target.Time(), err)
	}
	s.logger.Info("Deleted meeting.", "time", target.Time())
	return target, nil
}

// ListMeetings clears the meeting filter and orders meetings by time, then by
// participants for meetings at the same time.
func (s *Service) ListMeetings() []*models.Meeting {
	s.ledger.SetMeetingFilter(nil)
	s.ledger.SetMeetingSort(view.Then(query.MeetingByTime, query.MeetingByParticipants))
	return s.ledger.FilteredMeetings()
}

// MeetingsWith shows the meetings name takes part in.
func (s *Service) MeetingsWith(name string) []*models.Meeting {
	s.ledger.SetMeetingFilter(query.MeetingWith(name))
	return s.ledger.FilteredMeetings()
}

func pick[T any](list []T, index int, kind string) (T, error) {
	var zero T
	switch {
	case len(list) == 0:
		return zero, fmt.Errorf("%w: there is no %s to select", ErrInvalidIndex, kind)
	case index < 1 || index > len(list):
		return zero, fmt.Errorf("%w: %s index must be between 1 and %d", ErrInvalidIndex, kind, len(list))
	}
	return list[index-1], nil
}
