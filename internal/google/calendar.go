// Package google reads upcoming events from Google Calendar so they can be
// imported as meetings.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"meetbook/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	credentialsFile = "credentials.json"
	redirectURL     = "urn:ietf:wg:oauth:2.0:oob"
)

// Credentials identify the OAuth client. When ClientID or ClientSecret is
// empty, credentials.json in the working directory is used instead.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenDir     string
}

// CalendarClient reads events for one authenticated Google account.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
	account string
}

// NewClient builds a client for account from its saved token file.
func NewClient(ctx context.Context, logger *slog.Logger, creds Credentials, account string) (*CalendarClient, error) {
	config, err := OAuthConfig(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(creds.tokenPath(account))
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", account, err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{service: service, logger: logger, account: account}, nil
}

// UpcomingEvents fetches the timed events of calendarID starting within the
// next days days. All-day events are skipped.
func (c *CalendarClient) UpcomingEvents(ctx context.Context, calendarID string, days int) ([]*models.Event, error) {
	c.logger.Debug("Fetching upcoming events", "account", c.account, "calendarID", calendarID, "days", days)
	now := time.Now().UTC()

	events, err := c.service.Events.List(calendarID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, days).Format(time.RFC3339)).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	c.logger.Info("Fetched events from Google Calendar", "account", c.account, "calendarID", calendarID, "count", len(events.Items))
	return toEvents(events.Items, calendarID), nil
}

// toEvents converts API events to the provider-neutral Event model.
func toEvents(items []*calendar.Event, calendarID string) []*models.Event {
	var out []*models.Event
	for _, item := range items {
		if item.Start == nil || item.Start.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		var end time.Time
		if item.End != nil {
			end, _ = time.Parse(time.RFC3339, item.End.DateTime)
		}

		var attendees []models.Attendee
		for _, a := range item.Attendees {
			if a.ResponseStatus == "declined" {
				continue
			}
			attendees = append(attendees, models.Attendee{Email: a.Email, Name: a.DisplayName})
		}

		e := &models.Event{
			ID:          item.Id,
			UID:         item.ICalUID,
			Title:       item.Summary,
			Description: item.Description,
			StartTime:   start,
			EndTime:     end,
			Location:    item.Location,
			Attendees:   attendees,
			Source:      "google-" + calendarID,
		}
		if item.Organizer != nil {
			e.Organizer = item.Organizer.Email
		}
		out = append(out, e)
	}
	return out
}

// OAuthConfig returns the desktop-flow OAuth2 config, preferring explicit
// client credentials over credentials.json.
func OAuthConfig(creds Credentials) (*oauth2.Config, error) {
	if creds.ClientID != "" && creds.ClientSecret != "" {
		return &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the working directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = redirectURL
	return config, nil
}

// Exchange trades an authorization code from the consent page for a token.
func Exchange(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(ctx, authCode)
}

// SaveToken stores the token for account in the token directory.
func SaveToken(creds Credentials, account string, token *oauth2.Token) (string, error) {
	path := creds.tokenPath(account)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return "", fmt.Errorf("unable to write token file: %w", err)
	}
	return path, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// Accounts lists the accounts that have a saved token.
func Accounts(creds Credentials) ([]string, error) {
	files, err := os.ReadDir(creds.dir())
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, file := range files {
		name := file.Name()
		if strings.HasPrefix(name, "token-") && strings.HasSuffix(name, ".json") {
			accounts = append(accounts, strings.TrimSuffix(strings.TrimPrefix(name, "token-"), ".json"))
		}
	}
	return accounts, nil
}

func (c Credentials) dir() string {
	if c.TokenDir == "" {
		return "."
	}
	return c.TokenDir
}

func (c Credentials) tokenPath(account string) string {
	return filepath.Join(c.dir(), "token-"+account+".json")
}
