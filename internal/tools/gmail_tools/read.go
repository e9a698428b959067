package gmail_tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/fields"
	"github.com/teemow/deskhand/internal/gmail"
	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/tools/common"
)

// bodyPreviewRunes limits the body shown per message.
const bodyPreviewRunes = 500

const maxResultsField = "max_results"

// ReadEmailRequest is the parsed input of read_email_query.
type ReadEmailRequest struct {
	Query      string
	MaxResults int64
}

// parseReadEmailRequest accepts "query" or "query | max_results:N". An empty
// query or a missing limit falls back to the defaults in d.
func parseReadEmailRequest(input string, d Deps) (ReadEmailRequest, error) {
	query, opts, err := fields.ParseTrailing(input)
	if err != nil {
		return ReadEmailRequest{}, err
	}

	req := ReadEmailRequest{Query: query, MaxResults: d.DefaultMaxResults}
	if req.Query == "" {
		req.Query = d.DefaultQuery
	}
	if req.Query == "" {
		req.Query = config.DefaultMailQuery
	}
	if req.MaxResults <= 0 {
		req.MaxResults = config.DefaultMailMaxResults
	}

	if raw, ok := opts[maxResultsField]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return ReadEmailRequest{}, common.Errorf(common.KindParse, "%s must be a positive integer, got %q", maxResultsField, raw)
		}
		req.MaxResults = n
	}
	return req, nil
}

// ReadEmails returns the messages matching req, newest first.
func ReadEmails(ctx context.Context, d Deps, req ReadEmailRequest) ([]*gmail.MessageSummary, error) {
	mailer, err := d.Mailer(ctx)
	if err != nil {
		return nil, err
	}

	var messages []*gmail.MessageSummary
	err = common.External(ctx, instrumentation.ServiceGmail, instrumentation.OperationSearch, func(ctx context.Context) error {
		var searchErr error
		messages, searchErr = mailer.SearchMessages(ctx, req.Query, req.MaxResults)
		return searchErr
	})
	return messages, err
}

// formatMessages renders one block per message with the body collapsed to
// single spaces and cut to bodyPreviewRunes.
func formatMessages(messages []*gmail.MessageSummary) string {
	if len(messages) == 0 {
		return "📭 No emails found with the given criteria."
	}

	blocks := make([]string, len(messages))
	for i, m := range messages {
		body := strings.Join(strings.Fields(m.Body), " ")
		if r := []rune(body); len(r) > bodyPreviewRunes {
			body = string(r[:bodyPreviewRunes])
		}
		blocks[i] = fmt.Sprintf("🧾 From: %s\n📌 Subject: %s\n📄 Body: %s...", m.From, m.Subject, body)
	}
	return strings.Join(blocks, "\n\n")
}

func readEmailQueryTool(d Deps) common.StringTool {
	const failure = "Error reading emails"
	return common.StringTool{
		Name: "read_email_query",
		Description: "Reads emails from Gmail using a search query (default: 'subject:[BUG]'). " +
			"Returns the most recent matching emails with sender, subject and plain text body.",
		InputHelp: "Gmail query, optionally followed by '| max_results:N', e.g. 'subject:[BUG] | max_results:5'",
		Service:   instrumentation.ServiceGmail,
		Operation: instrumentation.OperationSearch,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseReadEmailRequest(input, d)
			if err != nil {
				return common.Failure(failure, err)
			}
			messages, err := ReadEmails(ctx, d, req)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Success(formatMessages(messages))
		},
	}
}
