// Package calendar_tools provides the create_event tool, which books an
// event in the primary Google Calendar with a Google Meet conference.
package calendar_tools
