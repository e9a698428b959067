// Package jira wraps the Jira REST API for the three issue operations deskhand
// exposes: create, search by JQL, and comment.
//
// Authentication uses HTTP basic auth with a user and an API token.
package jira
