package jira_tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/jira"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/tools/common"
)

type fakeTracker struct {
	created  []jira.IssueInput
	key      string
	jql      string
	limit    int
	issues   []jira.IssueRef
	comments map[string]string
	user     string
	err      error
}

func (f *fakeTracker) CreateIssue(_ context.Context, in jira.IssueInput) (*jira.IssueRef, error) {
	f.created = append(f.created, in)
	if f.err != nil {
		return nil, f.err
	}
	return &jira.IssueRef{Key: f.key, Summary: in.Summary}, nil
}

func (f *fakeTracker) SearchIssues(_ context.Context, jql string, limit int) ([]jira.IssueRef, error) {
	f.jql, f.limit = jql, limit
	return f.issues, f.err
}

func (f *fakeTracker) AddComment(_ context.Context, key, body string) error {
	if f.comments == nil {
		f.comments = map[string]string{}
	}
	f.comments[key] = body
	return f.err
}

func (f *fakeTracker) CurrentUser(context.Context) (string, error) {
	return f.user, f.err
}

func depsFor(tr *fakeTracker) Deps {
	return Deps{
		Tracker: func() (Tracker, error) { return tr, nil },
		Logger:  logging.Discard(),
	}
}

func unreachable(t *testing.T) Deps {
	return Deps{
		Tracker: func() (Tracker, error) {
			t.Error("tracker must not be requested")
			return nil, errors.New("unreachable")
		},
		Logger: logging.Discard(),
	}
}

func tool(t *testing.T, d Deps, name string) common.StringTool {
	t.Helper()
	for _, tl := range Tools(d) {
		if tl.Name == name {
			return tl
		}
	}
	t.Fatalf("tool %q not found", name)
	return common.StringTool{}
}

func TestCreateJiraIssue(t *testing.T) {
	tr := &fakeTracker{key: "PC-42"}

	got := tool(t, depsFor(tr), "create_jira_issue").Invoke(context.Background(),
		"project:OPS | summary:Disk full | description:Node 3 is at 100% | issuetype:Bug")

	assert.Equal(t, "✅ Issue created: [PC-42] Disk full", got)
	require.Len(t, tr.created, 1)
	assert.Equal(t, jira.IssueInput{Project: "OPS", Summary: "Disk full", Description: "Node 3 is at 100%", IssueType: "Bug"}, tr.created[0])
}

func TestCreateJiraIssue_Defaults(t *testing.T) {
	tr := &fakeTracker{key: "PC-43"}

	tool(t, depsFor(tr), "create_jira_issue").Invoke(context.Background(), "summary:Test ticket")

	require.Len(t, tr.created, 1)
	assert.Equal(t, jira.IssueInput{Project: config.DefaultJiraProject, Summary: "Test ticket", IssueType: "Task"}, tr.created[0])
}

func TestCreateJiraIssue_ConfiguredProject(t *testing.T) {
	tr := &fakeTracker{key: "WEB-1"}
	d := depsFor(tr)
	d.DefaultProject = "WEB"

	tool(t, d, "create_jira_issue").Invoke(context.Background(), "summary:Broken link")
	assert.Equal(t, "WEB", tr.created[0].Project)
}

func TestCreateJiraIssue_MissingSummaryMakesNoCall(t *testing.T) {
	res := tool(t, unreachable(t), "create_jira_issue").Run(context.Background(), "project:PC | description:no summary")
	assert.Equal(t, common.KindParse, res.Kind())
	assert.Equal(t, `❌ Error creating Jira issue: missing required field "summary"`, res.String())
}

func TestCreateJiraIssue_MissingConfiguration(t *testing.T) {
	d := Deps{
		Tracker: func() (Tracker, error) {
			return nil, &config.MissingError{Setting: "Jira credentials", EnvVars: []string{"JIRA_URL"}}
		},
	}
	res := tool(t, d, "create_jira_issue").Run(context.Background(), "summary:x")
	assert.Equal(t, common.KindConfiguration, res.Kind())
}

func TestSearchJiraIssues(t *testing.T) {
	tr := &fakeTracker{issues: []jira.IssueRef{{Key: "PC-1", Summary: "First"}, {Key: "PC-2", Summary: "Second"}}}

	got := tool(t, depsFor(tr), "search_jira_issues").Invoke(context.Background(), "project=PC AND status!=Done ORDER BY created DESC")

	assert.Equal(t, "PC-1: First\nPC-2: Second", got)
	assert.Equal(t, "project=PC AND status!=Done ORDER BY created DESC", tr.jql)
	assert.Equal(t, 5, tr.limit)
}

func TestSearchJiraIssues_Limit(t *testing.T) {
	tr := &fakeTracker{}
	got := tool(t, depsFor(tr), "search_jira_issues").Invoke(context.Background(), "assignee = currentUser() | max_results:20")

	assert.Equal(t, "🔎 No issues found.", got)
	assert.Equal(t, "assignee = currentUser()", tr.jql)
	assert.Equal(t, 20, tr.limit)
}

func TestSearchJiraIssues_InvalidInputMakesNoCall(t *testing.T) {
	for _, input := range []string{"", "   ", "project=PC | max_results:lots"} {
		res := tool(t, unreachable(t), "search_jira_issues").Run(context.Background(), input)
		assert.Equal(t, common.KindParse, res.Kind(), input)
	}
}

func TestSearchJiraIssues_Error(t *testing.T) {
	tr := &fakeTracker{err: errors.New("failed to search issues: Error in the JQL Query")}
	got := tool(t, depsFor(tr), "search_jira_issues").Invoke(context.Background(), "project = = PC")
	assert.Equal(t, "❌ Error searching Jira: failed to search issues: Error in the JQL Query", got)
}

func TestAddJiraComment(t *testing.T) {
	tr := &fakeTracker{}
	got := tool(t, depsFor(tr), "add_jira_comment").Invoke(context.Background(), "issue_key:PC-123 | comment:Fixed in build 42")

	assert.Equal(t, "💬 Comment added to PC-123.", got)
	assert.Equal(t, map[string]string{"PC-123": "Fixed in build 42"}, tr.comments)
}

func TestAddJiraComment_MissingFieldsMakesNoCall(t *testing.T) {
	res := tool(t, unreachable(t), "add_jira_comment").Run(context.Background(), "issue_key:PC-123")
	assert.Equal(t, `❌ Error adding comment: missing required field "comment"`, res.String())
}

func TestAuthenticateJira(t *testing.T) {
	got := tool(t, depsFor(&fakeTracker{user: "jdoe"}), "authenticate_jira").Invoke(context.Background(), "")
	assert.Equal(t, "✅ Jira authentication successful. Logged as: jdoe", got)

	got = tool(t, depsFor(&fakeTracker{err: errors.New("failed to get current user: 401")}), "authenticate_jira").Invoke(context.Background(), "")
	assert.Equal(t, "❌ Jira authentication failed: failed to get current user: 401", got)
}
