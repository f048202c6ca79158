// Package caldav publishes meetings to a calendar on a CalDAV server such as
// iCloud.
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

// DefaultEndpoint is iCloud's CalDAV endpoint.
const DefaultEndpoint = "https://caldav.icloud.com/"

// basicAuthTransport adds Basic Auth and a User-Agent to every request.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "meetbook/1.0")
	return t.Transport.RoundTrip(req)
}

// Config locates the target calendar.
type Config struct {
	Endpoint     string
	Username     string
	Password     string
	CalendarName string
}

// Client writes calendar objects into one named calendar.
type Client struct {
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	calendarPath string
}

// NewClient connects to the server and finds the calendar named
// cfg.CalendarName in the user's calendar home.
func NewClient(ctx context.Context, logger *slog.Logger, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	httpClient := &http.Client{Transport: &basicAuthTransport{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: http.DefaultTransport,
	}}

	caldavClient, err := caldav.NewClient(httpClient, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	webdavClient, err := webdav.NewClient(httpClient, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", cfg.CalendarName, "endpoint", cfg.Endpoint)
	calendarPath, err := c.findCalendar(ctx, cfg.CalendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", cfg.CalendarName, err)
	}
	c.calendarPath = calendarPath
	logger.Info("Found CalDAV calendar", "path", calendarPath)
	return c, nil
}

// Put stores cal as <uid>.ics in the calendar, replacing any earlier version.
func (c *Client) Put(ctx context.Context, uid string, cal *ical.Calendar) error {
	objectPath := path.Join(c.calendarPath, uid+".ics")
	c.logger.Debug("Writing calendar object", "path", objectPath)

	writer, err := c.webdavClient.Create(ctx, objectPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}
	if err := ical.NewEncoder(writer).Encode(cal); err != nil {
		writer.Close()
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to upload event: %w", err)
	}
	return nil
}

// Delete removes <uid>.ics from the calendar.
func (c *Client) Delete(ctx context.Context, uid string) error {
	objectPath := path.Join(c.calendarPath, uid+".ics")
	c.logger.Debug("Removing calendar object", "path", objectPath)

	if err := c.webdavClient.RemoveAll(ctx, objectPath); err != nil {
		return fmt.Errorf("failed to remove event from CalDAV server: %w", err)
	}
	return nil
}

// findCalendar walks principal, calendar home set and calendars to the
// calendar called name and returns its path on the server.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}
	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
