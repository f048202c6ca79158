// Package storage reads and writes a ledger snapshot as a JSON file. The file
// may carry comments and trailing commas, since it is meant to be edited by
// hand as well.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"meetbook/internal/ledger"
	"meetbook/internal/models"

	"github.com/tidwall/jsonc"
)

// ErrNotExist is returned by Load when the file does not exist yet.
var ErrNotExist = fs.ErrNotExist

type fileData struct {
	Persons  []jsonPerson  `json:"persons"`
	Meetings []jsonMeeting `json:"meetings"`
}

type jsonPerson struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Importance string   `json:"importance"`
	Tags       []string `json:"tags"`
}

type jsonMeeting struct {
	MeetingTime *string  `json:"meetingTime"`
	Persons     []string `json:"persons"`
	Notes       string   `json:"notes"`
}

// File is a ledger snapshot stored at Path.
type File struct {
	Path   string
	logger *slog.Logger
}

func NewFile(logger *slog.Logger, path string) *File {
	return &File{Path: path, logger: logger}
}

// Load reads the snapshot. A missing file yields an error matching
// ErrNotExist.
func (f *File) Load() (ledger.Snapshot, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	var data fileData
	if err := json.Unmarshal(jsonc.ToJSON(raw), &data); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to parse %s: %w", f.Path, err)
	}
	snap, err := data.toSnapshot()
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("invalid data in %s: %w", f.Path, err)
	}
	f.logger.Debug("Loaded ledger file.", "file", f.Path, "persons", len(snap.Persons), "meetings", len(snap.Meetings))
	return snap, nil
}

// Save writes snap, replacing the file atomically.
func (f *File) Save(snap ledger.Snapshot) error {
	data, err := json.MarshalIndent(fromSnapshot(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.Path, err)
	}
	f.logger.Debug("Saved ledger file.", "file", f.Path)
	return nil
}

// LoadOrSample loads the file, falling back to the sample data when it does
// not exist.
func (f *File) LoadOrSample() (ledger.Snapshot, error) {
	snap, err := f.Load()
	if errors.Is(err, ErrNotExist) {
		f.logger.Info("No ledger file found, starting with sample data.", "file", f.Path)
		return ledger.SampleSnapshot()
	}
	return snap, err
}

func (d fileData) toSnapshot() (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	for i, jp := range d.Persons {
		p, err := models.BuildPerson(jp.Name, jp.Email, jp.Phone, jp.Company, jp.Position, jp.Importance, jp.Tags)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("person #%d: %w", i+1, err)
		}
		snap.Persons = append(snap.Persons, p)
	}
	for i, jm := range d.Meetings {
		if jm.MeetingTime == nil {
			return ledger.Snapshot{}, fmt.Errorf("meeting #%d: meetingTime field is missing", i+1)
		}
		at, err := models.ParseMeetingTime(*jm.MeetingTime)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("meeting #%d: %w", i+1, err)
		}
		if jm.Persons == nil {
			return ledger.Snapshot{}, fmt.Errorf("meeting #%d: persons field is missing", i+1)
		}
		snap.Meetings = append(snap.Meetings, models.NewMeeting(at, jm.Persons, models.NewNotes(jm.Notes)))
	}
	return snap, nil
}

func fromSnapshot(snap ledger.Snapshot) fileData {
	data := fileData{
		Persons:  make([]jsonPerson, 0, len(snap.Persons)),
		Meetings: make([]jsonMeeting, 0, len(snap.Meetings)),
	}
	for _, p := range snap.Persons {
		tags := make([]string, 0)
		for _, t := range p.Tags() {
			tags = append(tags, t.String())
		}
		data.Persons = append(data.Persons, jsonPerson{
			Name:       p.Name().String(),
			Email:      p.Email().String(),
			Phone:      p.Phone().String(),
			Company:    p.Company().String(),
			Position:   p.Position().String(),
			Importance: p.Importance().String(),
			Tags:       tags,
		})
	}
	for _, m := range snap.Meetings {
		at := m.Time().String()
		data.Meetings = append(data.Meetings, jsonMeeting{
			MeetingTime: &at,
			Persons:     m.Participants(),
			Notes:       m.Notes().String(),
		})
	}
	return data
}
