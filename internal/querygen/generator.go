package querygen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4"

const promptTemplate = `
You are a Gmail query generator. Based on the user description, return a valid Gmail query using only:
- subject:[BUG], subject:[FAILURE], etc.
- from:user@example.com
Use OR/AND operators as needed.

Do NOT include label: under any circumstances, even if the user requests it.
Only return the query, without any explanation.

Examples:
"Emails with bugs or failures" → subject:[BUG] OR subject:[FAILURE]
"Emails from production team with bugs" → from:production@company.com AND (subject:[BUG] OR subject:[FAILURE])

Now generate the query for:
%q
`

var allowedOperators = map[string]bool{
	"subject": true,
	"from":    true,
}

// operatorPattern matches a search operator such as "label:" that is not part
// of a longer word or address.
var operatorPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_.@])([A-Za-z_]+):`)

// groupedValuePattern matches an operator whose value is quoted or
// parenthesized, as in subject:"Re: hi" or subject:(Re: hello).
var groupedValuePattern = regexp.MustCompile(`([A-Za-z_]+):("[^"]*"|\([^)]*\))`)

// DisallowedOperatorError reports a generated query using an operator other
// than subject: or from:.
type DisallowedOperatorError struct {
	Operator string
	Query    string
}

func (e *DisallowedOperatorError) Error() string {
	return fmt.Sprintf("model produced a disallowed operator %q in query %q", e.Operator+":", e.Query)
}

// Config configures a Generator.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Generator produces Gmail queries from descriptions.
type Generator struct {
	client openai.Client
	model  string
}

// New returns a Generator. An API key is required.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Generator{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Prompt returns the instruction sent to the model for description.
func Prompt(description string) string {
	return fmt.Sprintf(promptTemplate, description)
}

// Generate asks the model for a query matching description and validates it.
func (g *Generator) Generate(ctx context.Context, description string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(description)),
		},
		Temperature: param.NewOpt(0.0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	query := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := Validate(query); err != nil {
		return "", err
	}
	return query, nil
}

// Validate checks that query is non-empty and uses only subject: and from:.
func Validate(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("model produced an empty query")
	}
	terms := groupedValuePattern.ReplaceAllString(query, "$1: ")
	for _, m := range operatorPattern.FindAllStringSubmatch(terms, -1) {
		op := strings.ToLower(m[1])
		if !allowedOperators[op] {
			return &DisallowedOperatorError{Operator: op, Query: query}
		}
	}
	return nil
}
