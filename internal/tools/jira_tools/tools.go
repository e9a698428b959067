package jira_tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/fields"
	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/jira"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/common"
)

// Tracker is the subset of the Jira API the tools use.
type Tracker interface {
	CreateIssue(ctx context.Context, in jira.IssueInput) (*jira.IssueRef, error)
	SearchIssues(ctx context.Context, jql string, limit int) ([]jira.IssueRef, error)
	AddComment(ctx context.Context, key, body string) error
	CurrentUser(ctx context.Context) (string, error)
}

// Deps are the collaborators of the Jira tools.
type Deps struct {
	Tracker        func() (Tracker, error)
	DefaultProject string
	SearchLimit    int
	Logger         *slog.Logger
}

// FromServerContext builds Deps backed by the configured Jira site.
func FromServerContext(sc *server.ServerContext) Deps {
	cfg := sc.Config()
	return Deps{
		Tracker: func() (Tracker, error) {
			c, err := sc.JiraClient()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		DefaultProject: cfg.Jira.DefaultProject,
		SearchLimit:    cfg.Jira.SearchLimit,
		Logger:         sc.Logger(),
	}
}

// Tools returns the Jira tools.
func Tools(d Deps) []common.StringTool {
	d.Logger = logging.OrDefault(d.Logger)
	if d.DefaultProject == "" {
		d.DefaultProject = config.DefaultJiraProject
	}
	if d.SearchLimit <= 0 {
		d.SearchLimit = jira.DefaultSearchLimit
	}
	return []common.StringTool{
		createIssueTool(d),
		searchIssuesTool(d),
		addCommentTool(d),
		authenticateTool(d),
	}
}

// CreateIssueRequest is the parsed input of create_jira_issue.
type CreateIssueRequest struct {
	Project     string
	Summary     string
	Description string
	IssueType   string
}

func parseCreateIssueRequest(input string, defaultProject string) (CreateIssueRequest, error) {
	f, err := fields.Parse(input)
	if err != nil {
		return CreateIssueRequest{}, err
	}
	if err := f.Require("summary"); err != nil {
		return CreateIssueRequest{}, err
	}
	return CreateIssueRequest{
		Project:     f.Get("project", defaultProject),
		Summary:     f.Get("summary", ""),
		Description: f.Get("description", ""),
		IssueType:   f.Get("issuetype", jira.DefaultIssueType),
	}, nil
}

// CreateIssue files req and returns the new issue.
func CreateIssue(ctx context.Context, d Deps, req CreateIssueRequest) (*jira.IssueRef, error) {
	tracker, err := d.Tracker()
	if err != nil {
		return nil, err
	}

	var issue *jira.IssueRef
	err = common.External(ctx, instrumentation.ServiceJira, instrumentation.OperationCreate, func(ctx context.Context) error {
		var createErr error
		issue, createErr = tracker.CreateIssue(ctx, jira.IssueInput{
			Project:     req.Project,
			Summary:     req.Summary,
			Description: req.Description,
			IssueType:   req.IssueType,
		})
		return createErr
	})
	if err != nil {
		return nil, err
	}

	d.Logger.Info("jira issue created", "key", issue.Key, "project", req.Project)
	return issue, nil
}

func createIssueTool(d Deps) common.StringTool {
	const failure = "Error creating Jira issue"
	return common.StringTool{
		Name:        "create_jira_issue",
		Description: "Creates a Jira issue. Returns the issue key and summary.",
		InputHelp:   "'project:PC | summary:Test ticket | description:Ticket body | issuetype:Task'",
		Service:     instrumentation.ServiceJira,
		Operation:   instrumentation.OperationCreate,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseCreateIssueRequest(input, d.DefaultProject)
			if err != nil {
				return common.Failure(failure, err)
			}
			issue, err := CreateIssue(ctx, d, req)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Successf("✅ Issue created: [%s] %s", issue.Key, req.Summary)
		},
	}
}

// SearchIssuesRequest is the parsed input of search_jira_issues.
type SearchIssuesRequest struct {
	JQL   string
	Limit int
}

// parseSearchIssuesRequest accepts raw JQL, optionally followed by
// "| max_results:N".
func parseSearchIssuesRequest(input string, defaultLimit int) (SearchIssuesRequest, error) {
	jql, opts, err := fields.ParseTrailing(input)
	if err != nil {
		return SearchIssuesRequest{}, err
	}
	if jql == "" {
		return SearchIssuesRequest{}, common.NewToolError(common.KindParse, errors.New("a JQL query is required"))
	}

	req := SearchIssuesRequest{JQL: jql, Limit: defaultLimit}
	if raw, ok := opts["max_results"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return SearchIssuesRequest{}, common.Errorf(common.KindParse, "max_results must be a positive integer, got %q", raw)
		}
		req.Limit = n
	}
	return req, nil
}

// SearchIssues runs the JQL query in req.
func SearchIssues(ctx context.Context, d Deps, req SearchIssuesRequest) ([]jira.IssueRef, error) {
	tracker, err := d.Tracker()
	if err != nil {
		return nil, err
	}

	var issues []jira.IssueRef
	err = common.External(ctx, instrumentation.ServiceJira, instrumentation.OperationSearch, func(ctx context.Context) error {
		var searchErr error
		issues, searchErr = tracker.SearchIssues(ctx, req.JQL, req.Limit)
		return searchErr
	})
	return issues, err
}

func formatIssues(issues []jira.IssueRef) string {
	if len(issues) == 0 {
		return "🔎 No issues found."
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = fmt.Sprintf("%s: %s", issue.Key, issue.Summary)
	}
	return strings.Join(lines, "\n")
}

func searchIssuesTool(d Deps) common.StringTool {
	const failure = "Error searching Jira"
	return common.StringTool{
		Name:        "search_jira_issues",
		Description: fmt.Sprintf("Searches for Jira issues using JQL. Returns up to %d issues with key and summary.", d.SearchLimit),
		InputHelp:   "'project=PC AND status!=Done ORDER BY created DESC'",
		Service:     instrumentation.ServiceJira,
		Operation:   instrumentation.OperationSearch,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseSearchIssuesRequest(input, d.SearchLimit)
			if err != nil {
				return common.Failure(failure, err)
			}
			issues, err := SearchIssues(ctx, d, req)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Success(formatIssues(issues))
		},
	}
}

// AddCommentRequest is the parsed input of add_jira_comment.
type AddCommentRequest struct {
	IssueKey string
	Comment  string
}

func parseAddCommentRequest(input string) (AddCommentRequest, error) {
	f, err := fields.Parse(input)
	if err != nil {
		return AddCommentRequest{}, err
	}
	if err := f.Require("issue_key", "comment"); err != nil {
		return AddCommentRequest{}, err
	}
	return AddCommentRequest{
		IssueKey: f.Get("issue_key", ""),
		Comment:  f.Get("comment", ""),
	}, nil
}

// AddComment posts req.Comment on req.IssueKey.
func AddComment(ctx context.Context, d Deps, req AddCommentRequest) error {
	tracker, err := d.Tracker()
	if err != nil {
		return err
	}
	return common.External(ctx, instrumentation.ServiceJira, instrumentation.OperationComment, func(ctx context.Context) error {
		return tracker.AddComment(ctx, req.IssueKey, req.Comment)
	})
}

func addCommentTool(d Deps) common.StringTool {
	const failure = "Error adding comment"
	return common.StringTool{
		Name:        "add_jira_comment",
		Description: "Adds a comment to a Jira issue. Returns a confirmation.",
		InputHelp:   "'issue_key:PC-123 | comment:This is a comment'",
		Service:     instrumentation.ServiceJira,
		Operation:   instrumentation.OperationComment,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseAddCommentRequest(input)
			if err != nil {
				return common.Failure(failure, err)
			}
			if err := AddComment(ctx, d, req); err != nil {
				return common.Failure(failure, err)
			}
			return common.Successf("💬 Comment added to %s.", req.IssueKey)
		},
	}
}

// Authenticate checks the Jira credentials and returns the user they
// belong to.
func Authenticate(ctx context.Context, d Deps) (string, error) {
	tracker, err := d.Tracker()
	if err != nil {
		return "", err
	}

	var user string
	err = common.External(ctx, instrumentation.ServiceJira, instrumentation.OperationAuth, func(ctx context.Context) error {
		var userErr error
		user, userErr = tracker.CurrentUser(ctx)
		return userErr
	})
	return user, err
}

func authenticateTool(d Deps) common.StringTool {
	const failure = "Jira authentication failed"
	return common.StringTool{
		Name:        "authenticate_jira",
		Description: "Authenticates with Jira and returns a success or error message.",
		InputHelp:   "Ignored",
		Service:     instrumentation.ServiceJira,
		Operation:   instrumentation.OperationAuth,
		Call: func(ctx context.Context, _ string) common.Result {
			user, err := Authenticate(ctx, d)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Successf("✅ Jira authentication successful. Logged as: %s", user)
		},
	}
}
