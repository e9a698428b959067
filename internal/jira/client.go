package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gojira "github.com/andygrunwald/go-jira"
)

// Defaults applied by CreateIssue and SearchIssues.
const (
	DefaultIssueType   = "Task"
	DefaultSearchLimit = 5
)

// Config holds the connection settings for a Jira site.
type Config struct {
	URL   string
	User  string
	Token string
}

// Client is a Jira client bound to one site and user.
type Client struct {
	api *gojira.Client
}

// NewClient returns a client authenticating with basic auth. base, when
// non-nil, is the underlying transport.
func NewClient(cfg Config, base http.RoundTripper) (*Client, error) {
	if cfg.URL == "" || cfg.User == "" || cfg.Token == "" {
		return nil, errors.New("jira URL, user and token are required")
	}

	tp := gojira.BasicAuthTransport{
		Username:  cfg.User,
		Password:  cfg.Token,
		Transport: base,
	}
	api, err := gojira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}
	return &Client{api: api}, nil
}

// IssueInput describes an issue to create.
type IssueInput struct {
	Project     string
	Summary     string
	Description string
	IssueType   string
}

// IssueRef identifies an issue by key and summary.
type IssueRef struct {
	Key     string
	Summary string
}

// CreateIssue creates an issue and returns its key with the requested summary.
func (c *Client) CreateIssue(ctx context.Context, in IssueInput) (*IssueRef, error) {
	if in.Summary == "" {
		return nil, errors.New("summary is required")
	}
	if in.IssueType == "" {
		in.IssueType = DefaultIssueType
	}

	issue := &gojira.Issue{
		Fields: &gojira.IssueFields{
			Project:     gojira.Project{Key: in.Project},
			Summary:     in.Summary,
			Description: in.Description,
			Type:        gojira.IssueType{Name: in.IssueType},
		},
	}

	created, resp, err := c.api.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", gojira.NewJiraError(resp, err))
	}
	return &IssueRef{Key: created.Key, Summary: in.Summary}, nil
}

// SearchIssues runs a JQL query and returns at most limit issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, limit int) ([]IssueRef, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	issues, _, err := c.api.Issue.SearchWithContext(ctx, jql, &gojira.SearchOptions{
		MaxResults: limit,
		Fields:     []string{"summary"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	refs := make([]IssueRef, 0, len(issues))
	for _, issue := range issues {
		ref := IssueRef{Key: issue.Key}
		if issue.Fields != nil {
			ref.Summary = issue.Fields.Summary
		}
		refs = append(refs, ref)
	}
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// AddComment adds a comment to the issue identified by key.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	if key == "" {
		return errors.New("issue key is required")
	}
	if _, _, err := c.api.Issue.AddCommentWithContext(ctx, key, &gojira.Comment{Body: body}); err != nil {
		return fmt.Errorf("failed to add comment to %s: %w", key, err)
	}
	return nil
}

// CurrentUser returns the login name of the authenticated user, falling back
// to the account id on sites that no longer expose user names.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := c.api.User.GetSelfWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	switch {
	case user.Name != "":
		return user.Name, nil
	case user.AccountID != "":
		return user.AccountID, nil
	default:
		return user.DisplayName, nil
	}
}
