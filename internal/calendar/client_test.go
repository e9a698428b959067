package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	c.newRequestID = func() string { return "meet-test" }
	return c
}

func TestCreateEvent_WithMeet(t *testing.T) {
	var got calendar.Event
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "ev1",
			"htmlLink":    "https://calendar.google.com/event?eid=ev1",
			"hangoutLink": "https://meet.google.com/abc-defg-hij",
		})
	})

	start := time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC)
	created, err := c.CreateEvent(context.Background(), EventInput{
		Summary:     "Demo Meeting",
		Description: "Discuss ticket PC-123",
		Start:       start,
		Duration:    90 * time.Minute,
		TimeZone:    "America/Bogota",
		AddMeet:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, &CreatedEvent{
		ID:       "ev1",
		HTMLLink: "https://calendar.google.com/event?eid=ev1",
		MeetLink: "https://meet.google.com/abc-defg-hij",
	}, created)

	assert.Equal(t, "Demo Meeting", got.Summary)
	assert.Equal(t, "Discuss ticket PC-123", got.Description)
	assert.Equal(t, "2025-07-02T10:00:00", got.Start.DateTime)
	assert.Equal(t, "2025-07-02T11:30:00", got.End.DateTime)
	assert.Equal(t, "America/Bogota", got.Start.TimeZone)
	require.NotNil(t, got.ConferenceData)
	assert.Equal(t, "meet-test", got.ConferenceData.CreateRequest.RequestId)
}

func TestCreateEvent_WithoutMeet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("conferenceDataVersion"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ev2", "htmlLink": "https://calendar.google.com/event?eid=ev2"})
	})

	created, err := c.CreateEvent(context.Background(), EventInput{
		Summary:  "No call",
		Start:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		Duration: time.Hour,
	})
	require.NoError(t, err)
	assert.Empty(t, created.MeetLink)
}

func TestCreateEvent_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"insufficient permissions"}}`, http.StatusForbidden)
	})

	_, err := c.CreateEvent(context.Background(), EventInput{Summary: "x", Start: time.Now(), Duration: time.Hour})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create event")
}

func TestToCreatedEvent(t *testing.T) {
	assert.Equal(t, &CreatedEvent{}, toCreatedEvent(nil))

	created := toCreatedEvent(&calendar.Event{
		Id: "e",
		ConferenceData: &calendar.ConferenceData{EntryPoints: []*calendar.EntryPoint{
			{EntryPointType: "phone", Uri: "tel:+1"},
			{EntryPointType: "video", Uri: "https://meet.google.com/xyz"},
		}},
	})
	assert.Equal(t, "https://meet.google.com/xyz", created.MeetLink)
}
