package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// meetingNamespace scopes the name-based UUIDs generated for meetings.
var meetingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("meetbook:meeting"))

// Meeting is a scheduled meeting between people in the ledger. Participants
// are referenced by name only.
type Meeting struct {
	at           MeetingTime
	participants []string
	notes        Notes
}

// NewMeeting builds a Meeting. Duplicate participant names are collapsed. An
// empty participant set is allowed here; callers that edit meetings reject it.
func NewMeeting(at MeetingTime, participants []string, notes Notes) *Meeting {
	names := slices.Clone(participants)
	slices.Sort(names)
	return &Meeting{
		at:           at,
		participants: slices.Compact(names),
		notes:        notes,
	}
}

func (m *Meeting) Time() MeetingTime { return m.at }
func (m *Meeting) Notes() Notes      { return m.notes }

// Participants returns a sorted copy of the participant names.
func (m *Meeting) Participants() []string { return slices.Clone(m.participants) }

func (m *Meeting) HasParticipant(name string) bool {
	_, found := slices.BinarySearch(m.participants, name)
	return found
}

// SameMeeting reports whether other is at the same time with the same
// participants. Notes are not part of a meeting's identity.
func (m *Meeting) SameMeeting(other *Meeting) bool {
	if m == nil || other == nil {
		return false
	}
	return m.at.Equal(other.at) && slices.Equal(m.participants, other.participants)
}

// Equal is SameMeeting plus matching notes.
func (m *Meeting) Equal(other *Meeting) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.SameMeeting(other) && m.notes == other.notes
}

// UID is a stable identifier derived from the meeting's identity, so the same
// meeting always exports under the same calendar UID.
func (m *Meeting) UID() string {
	key := m.at.String() + "|" + strings.Join(m.participants, "\x1f")
	return uuid.NewSHA1(meetingNamespace, []byte(key)).String()
}

func (m *Meeting) String() string {
	return fmt.Sprintf("%s; People: [%s]; Notes: %s", m.at, strings.Join(m.participants, ", "), m.notes)
}
