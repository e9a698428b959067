package gmail_tools

import (
	"context"
	"errors"
	"strings"

	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/tools/common"
)

// GenerateQueryRequest is the parsed input of generate_gmail_query.
type GenerateQueryRequest struct {
	Description string
}

func parseGenerateQueryRequest(input string) (GenerateQueryRequest, error) {
	desc := strings.TrimSpace(input)
	if desc == "" {
		return GenerateQueryRequest{}, common.NewToolError(common.KindParse, errors.New("a description of the emails is required"))
	}
	return GenerateQueryRequest{Description: desc}, nil
}

// GenerateQuery asks the language model for a Gmail query matching req.
func GenerateQuery(ctx context.Context, d Deps, req GenerateQueryRequest) (string, error) {
	gen, err := d.QueryGenerator()
	if err != nil {
		return "", err
	}

	var query string
	err = common.External(ctx, instrumentation.ServiceOpenAI, instrumentation.OperationGen, func(ctx context.Context) error {
		var genErr error
		query, genErr = gen.Generate(ctx, req.Description)
		return genErr
	})
	return query, err
}

func generateQueryTool(d Deps) common.StringTool {
	const failure = "Error generating Gmail query"
	return common.StringTool{
		Name: "generate_gmail_query",
		Description: "Converts a natural language description into a Gmail query using only the " +
			"'subject:' and 'from:' fields with OR/AND. Returns only the query string.",
		InputHelp: "Description of the emails, e.g. 'Emails from the production team with bugs'",
		Service:   instrumentation.ServiceOpenAI,
		Operation: instrumentation.OperationGen,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseGenerateQueryRequest(input)
			if err != nil {
				return common.Failure(failure, err)
			}
			query, err := GenerateQuery(ctx, d, req)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Success(query)
		},
	}
}
