package edit

import (
	"testing"

	"meetbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeeting(t *testing.T) *models.Meeting {
	t.Helper()
	at, err := models.ParseMeetingTime("2025-12-30 14:00")
	require.NoError(t, err)
	return models.NewMeeting(at, []string{"Alice", "Bob"}, models.NewNotes("sync"))
}

func samplePerson(t *testing.T) *models.Person {
	t.Helper()
	p, err := models.BuildPerson("Alice", "alice@example.com", "12345678", "Acme", "Engineer", "high", []string{"friends"})
	require.NoError(t, err)
	return p
}

func TestFieldOr(t *testing.T) {
	var absent Field[string]
	assert.Equal(t, "fallback", absent.Or("fallback"))
	assert.False(t, absent.IsSet())

	present := Set("")
	assert.Equal(t, "", present.Or("fallback"))
	v, ok := present.Get()
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestMergeMeetingNotesOnly(t *testing.T) {
	orig := sampleMeeting(t)
	d := MeetingDescriptor{Notes: Set(models.NewNotes("new agenda"))}
	require.True(t, d.IsAnyFieldEdited())

	got := MergeMeeting(orig, d)

	assert.True(t, got.Time().Equal(orig.Time()))
	assert.Equal(t, orig.Participants(), got.Participants())
	assert.Equal(t, "new agenda", got.Notes().String())
	assert.True(t, got.SameMeeting(orig))
	assert.Equal(t, "sync", orig.Notes().String(), "original untouched")
}

func TestMergeMeetingAllFields(t *testing.T) {
	orig := sampleMeeting(t)
	at, err := models.ParseMeetingTime("01/01/2026 09:00")
	require.NoError(t, err)

	got := MergeMeeting(orig, MeetingDescriptor{
		Time:         Set(at),
		Notes:        Set(models.NewNotes("")),
		Participants: Set([]string{"Carol"}),
	})

	assert.Equal(t, "2026-01-01 09:00", got.Time().String())
	assert.Equal(t, []string{"Carol"}, got.Participants())
	assert.Empty(t, got.Notes().String())
}

func TestMergeMeetingCanEmptyParticipants(t *testing.T) {
	got := MergeMeeting(sampleMeeting(t), MeetingDescriptor{Participants: Set([]string{})})
	assert.Empty(t, got.Participants())
}

func TestEmptyDescriptors(t *testing.T) {
	assert.False(t, MeetingDescriptor{}.IsAnyFieldEdited())
	assert.False(t, PersonDescriptor{}.IsAnyFieldEdited())
}

func TestMergePerson(t *testing.T) {
	orig := samplePerson(t)
	phone, err := models.NewPhone("999888")
	require.NoError(t, err)

	got := MergePerson(orig, PersonDescriptor{
		Phone:      Set(phone),
		Importance: Set(models.ImportanceLow),
	})

	assert.Equal(t, "999888", got.Phone().String())
	assert.Equal(t, models.ImportanceLow, got.Importance())
	assert.Equal(t, orig.Name(), got.Name())
	assert.Equal(t, orig.Email(), got.Email())
	assert.Equal(t, orig.Tags(), got.Tags())
	assert.True(t, got.SamePerson(orig))
	assert.Equal(t, "12345678", orig.Phone().String())
}

func TestMergePersonClearsTags(t *testing.T) {
	got := MergePerson(samplePerson(t), PersonDescriptor{Tags: Set([]models.Tag(nil))})
	assert.Empty(t, got.Tags())
}
