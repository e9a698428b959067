package search_tools

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/common"
	"github.com/teemow/deskhand/internal/wikipedia"
)

// maxOptions bounds the alternatives listed for an ambiguous term.
const maxOptions = 3

// Encyclopedia looks up article summaries.
type Encyclopedia interface {
	Summary(ctx context.Context, query string) (string, error)
}

// Deps are the collaborators of the search tools.
type Deps struct {
	Encyclopedia Encyclopedia
	Logger       *slog.Logger
}

// FromServerContext builds Deps backed by the configured Wikipedia edition.
func FromServerContext(sc *server.ServerContext) Deps {
	return Deps{Encyclopedia: sc.Wikipedia(), Logger: sc.Logger()}
}

// Tools returns the search tools.
func Tools(d Deps) []common.StringTool {
	d.Logger = logging.OrDefault(d.Logger)
	return []common.StringTool{wikipediaSearchTool(d)}
}

// SearchRequest is the parsed input of wikipedia_search.
type SearchRequest struct {
	Query string
}

func parseSearchRequest(input string) (SearchRequest, error) {
	q := strings.TrimSpace(input)
	if q == "" {
		return SearchRequest{}, common.NewToolError(common.KindParse, errors.New("a search term is required"))
	}
	return SearchRequest{Query: q}, nil
}

// Search returns the rendered answer for req. Ambiguous and unknown terms
// are answers, not failures.
func Search(ctx context.Context, d Deps, req SearchRequest) (string, error) {
	var summary string
	err := common.External(ctx, instrumentation.ServiceWikipedia, instrumentation.OperationSummary, func(ctx context.Context) error {
		var lookupErr error
		summary, lookupErr = d.Encyclopedia.Summary(ctx, req.Query)
		return lookupErr
	})

	var ambiguous *wikipedia.DisambiguationError
	switch {
	case err == nil:
		return summary, nil
	case errors.As(err, &ambiguous):
		options := ambiguous.Options
		if len(options) > maxOptions {
			options = options[:maxOptions]
		}
		d.Logger.Debug("ambiguous search term", "title", ambiguous.Title, "options", len(ambiguous.Options))
		return "The query is ambiguous. Some possible options are: " + strings.Join(options, ", "), nil
	case errors.Is(err, wikipedia.ErrPageNotFound):
		return "No Wikipedia page was found for this term.", nil
	default:
		return "", err
	}
}

func wikipediaSearchTool(d Deps) common.StringTool {
	return common.StringTool{
		Name:        "wikipedia_search",
		Description: "Performs a search on Wikipedia and returns a summary of the first result found.",
		InputHelp:   "Search term, e.g. 'Alan Turing'",
		Service:     instrumentation.ServiceWikipedia,
		Operation:   instrumentation.OperationSummary,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseSearchRequest(input)
			if err != nil {
				return common.Failure("Error searching Wikipedia", err)
			}
			answer, err := Search(ctx, d, req)
			if err != nil {
				return common.FailureText("An unexpected error occurred: "+err.Error(), err)
			}
			return common.Success(answer)
		},
	}
}
