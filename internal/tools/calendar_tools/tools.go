package calendar_tools

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/teemow/deskhand/internal/calendar"
	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/fields"
	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/common"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04"
	defaultDuration = 1.0
)

// EventCreator inserts calendar events.
type EventCreator interface {
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error)
}

// Deps are the collaborators of the calendar tools.
type Deps struct {
	Calendar func(ctx context.Context) (EventCreator, error)
	TimeZone string
	Logger   *slog.Logger
}

// FromServerContext builds Deps backed by the Calendar API.
func FromServerContext(sc *server.ServerContext) Deps {
	return Deps{
		Calendar: func(ctx context.Context) (EventCreator, error) {
			c, err := sc.CalendarClient(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		TimeZone: sc.Config().Google.TimeZone,
		Logger:   sc.Logger(),
	}
}

// Tools returns the calendar tools.
func Tools(d Deps) []common.StringTool {
	d.Logger = logging.OrDefault(d.Logger)
	if d.TimeZone == "" {
		d.TimeZone = config.DefaultTimeZone
	}
	return []common.StringTool{createEventTool(d)}
}

// CreateEventRequest is the parsed input of create_event.
type CreateEventRequest struct {
	Title       string
	Start       time.Time // wall clock, zone applied by the calendar
	Duration    time.Duration
	Description string
}

func parseCreateEventRequest(input string) (CreateEventRequest, error) {
	f, err := fields.Parse(input)
	if err != nil {
		return CreateEventRequest{}, err
	}
	if err := f.Require("Title", "Date", "Time"); err != nil {
		return CreateEventRequest{}, err
	}

	start, err := time.Parse(dateLayout+" "+timeLayout, f.Get("Date", "")+" "+f.Get("Time", ""))
	if err != nil {
		return CreateEventRequest{}, common.Errorf(common.KindParse,
			"date and time must look like 2025-07-02 and 10:00: %w", err)
	}

	hours := defaultDuration
	if raw := f.Get("Duration", ""); raw != "" {
		hours, err = strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 {
			return CreateEventRequest{}, common.Errorf(common.KindParse,
				"duration must be a positive number of hours, got %q", raw)
		}
	}

	return CreateEventRequest{
		Title:       f.Get("Title", ""),
		Start:       start,
		Duration:    time.Duration(hours * float64(time.Hour)),
		Description: f.Get("Description", ""),
	}, nil
}

// CreateEvent books req with a Meet conference.
func CreateEvent(ctx context.Context, d Deps, req CreateEventRequest) (*calendar.CreatedEvent, error) {
	cal, err := d.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	var created *calendar.CreatedEvent
	err = common.External(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate, func(ctx context.Context) error {
		var createErr error
		created, createErr = cal.CreateEvent(ctx, calendar.EventInput{
			Summary:     req.Title,
			Description: req.Description,
			Start:       req.Start,
			Duration:    req.Duration,
			TimeZone:    d.TimeZone,
			AddMeet:     true,
		})
		return createErr
	})
	if err != nil {
		return nil, err
	}

	d.Logger.Info("event created", "event_id", created.ID, "meet", created.MeetLink != "")
	return created, nil
}

func formatCreatedEvent(ev *calendar.CreatedEvent) string {
	out := fmt.Sprintf("📅 Event created successfully.\n🔗 Event link: %s", ev.HTMLLink)
	if ev.MeetLink != "" {
		out += fmt.Sprintf("\n📹 Google Meet: %s", ev.MeetLink)
	}
	return out
}

func createEventTool(d Deps) common.StringTool {
	const failure = "Error creating event"
	return common.StringTool{
		Name:        "create_event",
		Description: "Creates a Google Calendar event with a Google Meet link. Returns the event and Meet links.",
		InputHelp:   "'Title: Demo Meeting | Date: 2025-07-02 | Time: 10:00 | Duration: 1 | Description: Discuss ticket PC-123'",
		Service:     instrumentation.ServiceCalendar,
		Operation:   instrumentation.OperationCreate,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseCreateEventRequest(input)
			if err != nil {
				return common.Failure(failure, err)
			}
			created, err := CreateEvent(ctx, d, req)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Success(formatCreatedEvent(created))
		},
	}
}
