// Package config loads deskhand settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then the process environment. Required values (API keys, the
// Google client secret path, Jira credentials) are not checked at load time;
// the Require* accessors report a *MissingError when the operation that
// needs them runs.
package config
