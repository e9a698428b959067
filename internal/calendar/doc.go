// Package calendar creates events in the user's primary Google Calendar,
// optionally with a Google Meet conference attached.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//
//	created, err := client.CreateEvent(ctx, calendar.EventInput{
//	    Summary:  "Demo Meeting",
//	    Start:    start,
//	    Duration: time.Hour,
//	    TimeZone: "America/Bogota",
//	    AddMeet:  true,
//	})
package calendar
