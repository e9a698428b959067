package calendar

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// PrimaryCalendar is the calendar id of the authenticated user's own calendar.
const PrimaryCalendar = "primary"

// wallClockLayout formats a date-time without offset; the zone travels in the
// TimeZone field of the request.
const wallClockLayout = "2006-01-02T15:04:05"

// Client wraps the Calendar service.
type Client struct {
	svc *calendar.Service
	// newRequestID returns the id for a conference create request.
	newRequestID func() string
}

// NewClient creates a Calendar client that sends requests through httpClient.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{
		svc:          svc,
		newRequestID: func() string { return "meet-" + uuid.NewString() },
	}, nil
}

// CreateEvent inserts an event in the primary calendar.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if input.TimeZone == "" {
		input.TimeZone = "UTC"
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(wallClockLayout),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End().Format(wallClockLayout),
			TimeZone: input.TimeZone,
		},
	}

	call := c.svc.Events.Insert(PrimaryCalendar, event)
	if input.AddMeet {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: c.newRequestID(),
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return toCreatedEvent(created), nil
}
