package storage

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"meetbook/internal/ledger"
	"meetbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T, name string) *File {
	t.Helper()
	return NewFile(slog.New(slog.DiscardHandler), filepath.Join(t.TempDir(), name))
}

func TestSaveThenLoad(t *testing.T) {
	f := newFile(t, "ledger.json")
	snap, err := ledger.SampleSnapshot()
	require.NoError(t, err)

	require.NoError(t, f.Save(snap))
	got, err := f.Load()
	require.NoError(t, err)

	require.Len(t, got.Persons, len(snap.Persons))
	require.Len(t, got.Meetings, len(snap.Meetings))
	for i := range snap.Persons {
		assert.True(t, snap.Persons[i].Equal(got.Persons[i]), snap.Persons[i].String())
	}
	for i := range snap.Meetings {
		assert.True(t, snap.Meetings[i].Equal(got.Meetings[i]), snap.Meetings[i].String())
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := newFile(t, "absent.json")
	_, err := f.Load()
	assert.True(t, errors.Is(err, ErrNotExist))

	snap, err := f.LoadOrSample()
	require.NoError(t, err)
	assert.Len(t, snap.Persons, 6)
}

func TestLoadAcceptsComments(t *testing.T) {
	f := newFile(t, "ledger.json")
	content := `{
  // people first
  "persons": [
    {"name": "Alice", "email": "alice@example.com", "phone": "123", "company": "Acme",
     "position": "CTO", "importance": "high", "tags": ["board",],},
  ],
  "meetings": [
    {"meetingTime": "30/12/2025 14:00", "persons": ["Alice"], "notes": ""}, /* trailing */
  ],
}`
	require.NoError(t, os.WriteFile(f.Path, []byte(content), 0o644))

	snap, err := f.Load()
	require.NoError(t, err)
	require.Len(t, snap.Persons, 1)
	assert.Equal(t, models.ImportanceHigh, snap.Persons[0].Importance())
	require.Len(t, snap.Meetings, 1)
	assert.Equal(t, "2025-12-30 14:00", snap.Meetings[0].Time().String())
}

func TestLoadReportsInvalidFields(t *testing.T) {
	for name, content := range map[string]string{
		"bad email":     `{"persons":[{"name":"A","email":"nope","phone":"123","company":"c","position":"p","importance":"low"}]}`,
		"missing time":  `{"meetings":[{"persons":["A"],"notes":""}]}`,
		"bad time":      `{"meetings":[{"meetingTime":"soon","persons":["A"],"notes":""}]}`,
		"missing names": `{"meetings":[{"meetingTime":"2025-01-01 10:00","notes":""}]}`,
		"not json":      `persons:`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFile(t, "ledger.json")
			require.NoError(t, os.WriteFile(f.Path, []byte(content), 0o644))
			_, err := f.Load()
			assert.Error(t, err)
		})
	}
}
