package ledger

import (
	"fmt"

	"meetbook/internal/models"
)

type samplePerson struct {
	name, email, phone, company, position, importance string
	tags                                              []string
}

var samplePersons = []samplePerson{
	{"Alex Yeoh", "alexyeoh@example.com", "87438807", "Google", "Software Engineer", "HIGH", []string{"friends"}},
	{"Bernice Yu", "berniceyu@example.com", "99272758", "Microsoft", "Product Manager", "MEDIUM", []string{"colleagues", "friends"}},
	{"Charlotte Oliveiro", "charlotte@example.com", "93210283", "Facebook", "UX Designer", "LOW", []string{"neighbours"}},
	{"David Li", "lidavid@example.com", "91031282", "Apple", "Data Analyst", "LOW", []string{"family"}},
	{"Irfan Ibrahim", "irfan@example.com", "92492021", "Amazon", "Marketing Specialist", "MEDIUM", []string{"classmates"}},
	{"Roy Balakrishnan", "royb@example.com", "92624417", "Tesla", "Mechanical Engineer", "HIGH", []string{"colleagues"}},
}

var sampleMeetings = []struct {
	at     string
	people []string
	notes  string
}{
	{"2025-12-30 14:00", []string{"Bernice Yu", "Alex Yeoh", "David Li"}, "Discuss about the new project"},
	{"2025-12-15 15:20", []string{"David Li"}, "Interview for summer internship"},
	{"2025-02-13 10:00", []string{"David Li", "Roy Balakrishnan"}, "Consultation at Singapore Coding Conference"},
}

// SampleSnapshot is the data a new ledger starts with when there is no file
// to load.
func SampleSnapshot() (Snapshot, error) {
	var snap Snapshot
	for _, sp := range samplePersons {
		p, err := models.BuildPerson(sp.name, sp.email, sp.phone, sp.company, sp.position, sp.importance, sp.tags)
		if err != nil {
			return Snapshot{}, fmt.Errorf("sample person %s: %w", sp.name, err)
		}
		snap.Persons = append(snap.Persons, p)
	}
	for _, sm := range sampleMeetings {
		at, err := models.ParseMeetingTime(sm.at)
		if err != nil {
			return Snapshot{}, fmt.Errorf("sample meeting: %w", err)
		}
		snap.Meetings = append(snap.Meetings, models.NewMeeting(at, sm.people, models.NewNotes(sm.notes)))
	}
	return snap, nil
}
