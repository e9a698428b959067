// Package google_tools provides authenticate_google.
//
// The tool makes sure a valid Google token is stored: a valid token is kept,
// an expired one is refreshed, and otherwise the interactive consent flow
// runs. The token grants access to Gmail and Calendar.
package google_tools
