package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicatePerson  = errors.New("person already exists in the ledger")
	ErrDuplicateMeeting = errors.New("meeting already exists in the ledger")
	ErrPersonNotFound   = errors.New("person not found")
	ErrMeetingNotFound  = errors.New("meeting not found")

	// ErrMissingParticipant matches any *MissingParticipantError via errors.Is.
	ErrMissingParticipant = errors.New("meeting participant is not in the ledger")
)

// MissingParticipantError names the first participant of a meeting that does
// not match any person in the roster.
type MissingParticipantError struct {
	Name string
}

func (e *MissingParticipantError) Error() string {
	return fmt.Sprintf("person %s is not in the ledger", e.Name)
}

func (e *MissingParticipantError) Is(target error) bool {
	return target == ErrMissingParticipant
}
