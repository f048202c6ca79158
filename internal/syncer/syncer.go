// Package syncer moves meetings between the ledger and external calendars:
// importing events as meetings, and publishing meetings to a CalDAV calendar.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"meetbook/internal/ics"
	"meetbook/internal/ledger"
	"meetbook/internal/models"

	"github.com/emersion/go-ical"
)

// SyncState records what has been published. The key is the meeting UID,
// the value is the fingerprint of the meeting as last published.
type SyncState map[string]string

// Publisher stores and removes calendar objects by UID.
type Publisher interface {
	Put(ctx context.Context, uid string, cal *ical.Calendar) error
	Delete(ctx context.Context, uid string) error
}

// EventSource lists upcoming events of an external calendar.
type EventSource interface {
	UpcomingEvents(ctx context.Context, calendarID string, days int) ([]*models.Event, error)
}

// Syncer imports into and publishes from a Ledger.
type Syncer struct {
	logger    *slog.Logger
	ledger    *ledger.Ledger
	publisher Publisher
	stateFile string
	state     SyncState
	dryRun    bool
	opts      ics.Options
}

// NewSyncer creates a Syncer, loading publish state from stateFile if it
// exists. publisher may be nil when only importing.
func NewSyncer(logger *slog.Logger, l *ledger.Ledger, publisher Publisher, stateFile string, dryRun bool, opts ics.Options) (*Syncer, error) {
	state, err := loadState(stateFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load sync state: %w", err)
		}
		logger.Info("No sync state file found, starting fresh.", "file", stateFile)
		state = make(SyncState)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Syncer{
		logger:    logger,
		ledger:    l,
		publisher: publisher,
		stateFile: stateFile,
		state:     state,
		dryRun:    dryRun,
		opts:      opts,
	}, nil
}

// Publish pushes every meeting that changed since it was last published and
// removes published objects whose meeting is gone from the ledger, which
// includes the old UID of a rescheduled meeting. A failed meeting is logged
// and the rest are still attempted. It returns the number of meetings pushed.
func (s *Syncer) Publish(ctx context.Context) (int, error) {
	if s.publisher == nil {
		return 0, errors.New("no calendar to publish to")
	}
	s.logger.Info("Starting publish cycle.")

	roster := s.ledger.Persons()
	emails := emailsByName(roster)
	meetings := s.ledger.Meetings()
	current := make(map[string]struct{}, len(meetings))
	pushed := 0
	for _, m := range meetings {
		uid, fp := m.UID(), fingerprint(m, emails)
		current[uid] = struct{}{}
		if s.state[uid] == fp {
			s.logger.Debug("Meeting unchanged, skipping.", "time", m.Time(), "uid", uid)
			continue
		}
		if s.dryRun {
			s.logger.Info("[DRY RUN] Would publish meeting", "time", m.Time(), "participants", m.Participants())
			continue
		}
		if err := s.publisher.Put(ctx, uid, ics.Calendar(m, roster, s.opts)); err != nil {
			s.logger.Error("Failed to publish meeting", "time", m.Time(), "error", err)
			continue
		}
		s.state[uid] = fp
		pushed++
	}
	removed := s.removeStale(ctx, current)

	if !s.dryRun {
		if err := s.saveState(); err != nil {
			return pushed, err
		}
	}
	s.logger.Info("Publish cycle finished.", "published", pushed, "removed", removed)
	return pushed, nil
}

// removeStale deletes published objects whose UID is not in current. A UID
// whose delete fails stays in the state and is retried next cycle.
func (s *Syncer) removeStale(ctx context.Context, current map[string]struct{}) int {
	removed := 0
	for uid := range s.state {
		if _, ok := current[uid]; ok {
			continue
		}
		if s.dryRun {
			s.logger.Info("[DRY RUN] Would remove published meeting", "uid", uid)
			continue
		}
		if err := s.publisher.Delete(ctx, uid); err != nil {
			s.logger.Error("Failed to remove published meeting", "uid", uid, "error", err)
			continue
		}
		delete(s.state, uid)
		removed++
	}
	return removed
}

// ImportResult counts what Import did with each event.
type ImportResult struct {
	Added   int
	Skipped int // no attendee matched a person in the ledger
	Failed  int // rejected by the ledger, e.g. already present
}

// Import adds a meeting for each event. Attendees are matched to people by
// email, then by name; attendees that match nobody are left out of the
// meeting.
func (s *Syncer) Import(events []*models.Event) ImportResult {
	var res ImportResult
	roster := s.ledger.Persons()
	for _, e := range events {
		m, ok := s.toMeeting(e, roster)
		if !ok {
			s.logger.Debug("No known attendees, skipping event.", "title", e.Title, "uid", e.UID)
			res.Skipped++
			continue
		}
		if s.dryRun {
			s.logger.Info("[DRY RUN] Would import event", "title", e.Title, "time", m.Time(), "participants", m.Participants())
			res.Added++
			continue
		}
		if err := s.ledger.AddMeeting(m); err != nil {
			s.logger.Warn("Failed to import event", "title", e.Title, "error", err)
			res.Failed++
			continue
		}
		res.Added++
	}
	s.logger.Info("Import finished.", "added", res.Added, "skipped", res.Skipped, "failed", res.Failed)
	return res
}

func (s *Syncer) toMeeting(e *models.Event, roster []*models.Person) (*models.Meeting, bool) {
	byEmail := make(map[string]string, len(roster))
	byName := make(map[string]string, len(roster))
	for _, p := range roster {
		byEmail[strings.ToLower(p.Email().String())] = p.Name().String()
		byName[p.Name().String()] = p.Name().String()
	}

	var names []string
	for _, a := range e.Attendees {
		if name, ok := byEmail[strings.ToLower(a.Email)]; ok && a.Email != "" {
			names = append(names, name)
		} else if name, ok := byName[a.Name]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, false
	}

	notes := e.Title
	if e.Description != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += e.Description
	}
	at := models.MeetingTimeOf(e.StartTime.In(s.opts.Location))
	return models.NewMeeting(at, names, models.NewNotes(notes)), true
}

// FetchEvents collects upcoming events from every source and calendar. A
// calendar that cannot be read is logged and skipped.
func FetchEvents(ctx context.Context, logger *slog.Logger, sources []EventSource, calendarIDs []string, days int) []*models.Event {
	var all []*models.Event
	for _, src := range sources {
		for _, calID := range calendarIDs {
			events, err := src.UpcomingEvents(ctx, calID, days)
			if err != nil {
				logger.Error("Could not fetch events for a calendar", "calendarID", calID, "error", err)
				continue
			}
			all = append(all, events...)
		}
	}
	return all
}

// fingerprint changes whenever anything published about m changes, including
// the email address of a participant.
func fingerprint(m *models.Meeting, emails map[string]string) string {
	var b strings.Builder
	b.WriteString(m.String())
	for _, name := range m.Participants() {
		b.WriteString("|")
		b.WriteString(emails[name])
	}
	return b.String()
}

func emailsByName(roster []*models.Person) map[string]string {
	emails := make(map[string]string, len(roster))
	for _, p := range roster {
		emails[p.Name().String()] = p.Email().String()
	}
	return emails
}

func loadState(path string) (SyncState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var state SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state == nil {
		state = make(SyncState)
	}
	return state, nil
}

func (s *Syncer) saveState() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}
	if err := os.WriteFile(s.stateFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}
