package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeetingTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-04-01 14:30", "2024-04-01 14:30"},
		{"13/04/2024 09:05", "2024-04-13 09:05"},
		{"04/13/2024 09:05", "2024-04-13 09:05"},
		// matches both day-first and month-first; day-first is tried first
		{"04/01/2024 14:30", "2024-01-04 14:30"},
		// days past the end of the month are clamped
		{"2024-02-30 10:00", "2024-02-29 10:00"},
		{"2023-02-31 10:00", "2023-02-28 10:00"},
		{"31/04/2024 10:00", "2024-04-30 10:00"},
		{"02/30/2024 08:15", "2024-02-29 08:15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMeetingTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseMeetingTimeRejects(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2024-13-01 10:00", "2024-04-32 10:00", "2024-04-00 10:00", "32/01/2024 10:00", "2024-04-01", "2024-04-01 25:00", " 2024-04-01 14:30"} {
		_, err := ParseMeetingTime(in)
		var verr *ValidationError
		require.Error(t, err, in)
		assert.True(t, errors.As(err, &verr), in)
		assert.Equal(t, "meeting time", verr.Field)
	}
}

func TestMeetingTimeOfDropsZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	mt := MeetingTimeOf(time.Date(2025, 12, 30, 14, 0, 59, 0, loc))
	assert.Equal(t, "2025-12-30 14:00", mt.String())
	assert.Equal(t, 14, mt.In(loc).Hour())
}

func TestParseImportance(t *testing.T) {
	for in, want := range map[string]Importance{
		"low":     ImportanceLow,
		"MEDIUM":  ImportanceMedium,
		"hIgH":    ImportanceHigh,
		"high  ":  ImportanceHigh,
		"Medium ": ImportanceMedium,
	} {
		got, err := ParseImportance(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "High", ImportanceHigh.String())

	for _, in := range []string{"", " low", "urgent", "lowest"} {
		_, err := ParseImportance(in)
		assert.Error(t, err, in)
	}
}

func TestImportanceRank(t *testing.T) {
	assert.Less(t, ImportanceLow.Rank(), ImportanceMedium.Rank())
	assert.Less(t, ImportanceMedium.Rank(), ImportanceHigh.Rank())
	assert.Zero(t, Importance{}.Rank())
}

func TestNotesAcceptsAnything(t *testing.T) {
	assert.Equal(t, "", NewNotes("").String())
	assert.Equal(t, NewNotes("sync"), NewNotes("sync"))
}

func TestFieldValidation(t *testing.T) {
	_, err := NewName("Alex Yeoh")
	assert.NoError(t, err)
	_, err = NewName(" Alex")
	assert.Error(t, err)
	_, err = NewName("R2-D2")
	assert.Error(t, err)
	// spacing is kept as typed
	n, err := NewName("Alex  Yeoh ")
	require.NoError(t, err)
	assert.Equal(t, "Alex  Yeoh ", n.String())
	_, err = NewName("Zoë 2")
	assert.NoError(t, err)

	_, err = NewEmail("alexyeoh@example.com")
	assert.NoError(t, err)
	_, err = NewEmail("alexyeoh")
	assert.Error(t, err)

	_, err = NewPhone("87438807")
	assert.NoError(t, err)
	for _, bad := range []string{"12", "+6512345", "12a45", "1.5e3"} {
		_, err = NewPhone(bad)
		assert.Error(t, err, bad)
	}

	_, err = NewCompany("Google")
	assert.NoError(t, err)
	_, err = NewCompany("  ")
	assert.Error(t, err)

	_, err = NewPosition("Software Engineer")
	assert.NoError(t, err)
	_, err = NewPosition("")
	assert.Error(t, err)

	_, err = NewTags("friends", "colleagues")
	assert.NoError(t, err)
	_, err = NewTags("friends", "best friends")
	assert.Error(t, err)
	_, err = NewTags("café")
	assert.NoError(t, err)
	_, err = NewTags("")
	assert.Error(t, err)
}

func mustPerson(t *testing.T, name, email string, tags ...string) *Person {
	t.Helper()
	n, err := NewName(name)
	require.NoError(t, err)
	e, err := NewEmail(email)
	require.NoError(t, err)
	ph, err := NewPhone("12345678")
	require.NoError(t, err)
	c, err := NewCompany("Acme")
	require.NoError(t, err)
	pos, err := NewPosition("Engineer")
	require.NoError(t, err)
	tg, err := NewTags(tags...)
	require.NoError(t, err)
	return NewPerson(n, e, ph, c, pos, ImportanceMedium, tg)
}

func TestPersonIdentityAndEquality(t *testing.T) {
	a := mustPerson(t, "Alice", "alice@example.com", "friends", "work")
	b := mustPerson(t, "Alice", "other@example.com")
	c := mustPerson(t, "alice", "alice@example.com", "friends", "work")
	d := mustPerson(t, "Alice", "alice@example.com", "work", "friends", "work")

	assert.True(t, a.SamePerson(b))
	assert.False(t, a.Equal(b))
	assert.False(t, a.SamePerson(c), "identity is case-sensitive")
	assert.True(t, a.Equal(d), "tag order and duplicates do not matter")
	assert.Len(t, d.Tags(), 2)
}

func TestPersonTagsAreCopied(t *testing.T) {
	p := mustPerson(t, "Alice", "alice@example.com", "friends")
	tags := p.Tags()
	tags[0] = Tag{value: "enemies"}
	assert.Equal(t, "friends", p.Tags()[0].String())
}

func TestMeetingIdentity(t *testing.T) {
	at, err := ParseMeetingTime("2025-12-30 14:00")
	require.NoError(t, err)
	later, err := ParseMeetingTime("2025-12-30 15:00")
	require.NoError(t, err)

	m := NewMeeting(at, []string{"Bob", "Alice"}, NewNotes("sync"))
	same := NewMeeting(at, []string{"Alice", "Bob", "Alice"}, NewNotes("other notes"))
	moved := NewMeeting(later, []string{"Alice", "Bob"}, NewNotes("sync"))
	fewer := NewMeeting(at, []string{"Alice"}, NewNotes("sync"))

	assert.True(t, m.SameMeeting(same))
	assert.False(t, m.Equal(same))
	assert.False(t, m.SameMeeting(moved))
	assert.False(t, m.SameMeeting(fewer))
	assert.Equal(t, []string{"Alice", "Bob"}, m.Participants())
	assert.True(t, m.HasParticipant("Bob"))
	assert.False(t, m.HasParticipant("Carol"))
}

func TestMeetingUIDFollowsIdentity(t *testing.T) {
	at, err := ParseMeetingTime("2025-12-30 14:00")
	require.NoError(t, err)
	m := NewMeeting(at, []string{"Alice", "Bob"}, NewNotes("a"))
	same := NewMeeting(at, []string{"Bob", "Alice"}, NewNotes("b"))
	other := NewMeeting(at, []string{"Alice"}, NewNotes("a"))

	assert.Equal(t, m.UID(), same.UID())
	assert.NotEqual(t, m.UID(), other.UID())
}
