package caldav

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	mu     sync.Mutex
	method string
	path   string
	user   string
	agent  string
	body   string
}

func newRecordingClient(t *testing.T, status int) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, _, _ := r.BasicAuth()
		rec.mu.Lock()
		rec.method, rec.path, rec.user, rec.agent, rec.body = r.Method, r.URL.Path, user, r.UserAgent(), string(body)
		rec.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	httpClient := &http.Client{Transport: &basicAuthTransport{
		Username:  "me@example.com",
		Password:  "secret",
		Transport: http.DefaultTransport,
	}}
	wc, err := webdav.NewClient(httpClient, srv.URL+"/")
	require.NoError(t, err)
	return &Client{
		webdavClient: wc,
		logger:       slog.New(slog.DiscardHandler),
		calendarPath: "/123/calendars/work/",
	}, rec
}

func TestPutWritesObjectUnderCalendar(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusCreated)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//test//EN")
	ev := ical.NewComponent(ical.CompEvent)
	ev.Props.SetText(ical.PropUID, "uid-1")
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ev.Props.SetDateTime(ical.PropDateTimeStart, time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC))
	cal.Children = append(cal.Children, ev)

	require.NoError(t, c.Put(context.Background(), "uid-1", cal))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/123/calendars/work/uid-1.ics", rec.path)
	assert.Equal(t, "me@example.com", rec.user)
	assert.Equal(t, "meetbook/1.0", rec.agent)
	assert.Contains(t, rec.body, "UID:uid-1")
}

func TestDeleteRemovesObjectFromCalendar(t *testing.T) {
	c, rec := newRecordingClient(t, http.StatusNoContent)

	require.NoError(t, c.Delete(context.Background(), "uid-1"))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/123/calendars/work/uid-1.ics", rec.path)
	assert.Equal(t, "me@example.com", rec.user)
}

func TestDeleteReportsServerError(t *testing.T) {
	c, _ := newRecordingClient(t, http.StatusForbidden)
	assert.Error(t, c.Delete(context.Background(), "uid-1"))
}
