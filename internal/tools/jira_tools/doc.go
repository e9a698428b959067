// Package jira_tools provides the Jira tools: create_jira_issue,
// search_jira_issues, add_jira_comment and authenticate_jira.
package jira_tools
