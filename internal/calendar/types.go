package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput describes an event to create. Start is a wall-clock time
// interpreted in TimeZone.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	Duration    time.Duration
	TimeZone    string
	AddMeet     bool
}

// End returns the wall-clock end time of the event.
func (in EventInput) End() time.Time {
	return in.Start.Add(in.Duration)
}

// CreatedEvent is the part of an inserted event reported back to the caller.
type CreatedEvent struct {
	ID       string
	HTMLLink string
	MeetLink string
}

func toCreatedEvent(event *calendar.Event) *CreatedEvent {
	if event == nil {
		return &CreatedEvent{}
	}
	created := &CreatedEvent{
		ID:       event.Id,
		HTMLLink: event.HtmlLink,
		MeetLink: event.HangoutLink,
	}
	if created.MeetLink == "" && event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				created.MeetLink = ep.Uri
				break
			}
		}
	}
	return created
}
