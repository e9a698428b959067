package gmail_tools

import (
	"context"
	"log/slog"

	"github.com/teemow/deskhand/internal/gmail"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/common"
)

// Mailer sends and searches the authenticated user's mail.
type Mailer interface {
	SendEmail(ctx context.Context, msg *gmail.EmailMessage) (string, error)
	SearchMessages(ctx context.Context, query string, maxResults int64) ([]*gmail.MessageSummary, error)
}

// QueryGenerator turns a description into a Gmail search query.
type QueryGenerator interface {
	Generate(ctx context.Context, description string) (string, error)
}

// Deps are the collaborators of the Gmail tools. Factories are called per
// invocation, after the input has been parsed.
type Deps struct {
	Mailer            func(ctx context.Context) (Mailer, error)
	QueryGenerator    func() (QueryGenerator, error)
	DefaultQuery      string
	DefaultMaxResults int64
	Logger            *slog.Logger
}

// FromServerContext builds Deps backed by the real Gmail and OpenAI clients.
func FromServerContext(sc *server.ServerContext) Deps {
	cfg := sc.Config()
	return Deps{
		Mailer: func(ctx context.Context) (Mailer, error) {
			c, err := sc.GmailClient(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		QueryGenerator: func() (QueryGenerator, error) {
			g, err := sc.QueryGenerator()
			if err != nil {
				return nil, err
			}
			return g, nil
		},
		DefaultQuery:      cfg.Google.MailQuery,
		DefaultMaxResults: cfg.Google.MailMaxResults,
		Logger:            sc.Logger(),
	}
}

// Tools returns the Gmail tools.
func Tools(d Deps) []common.StringTool {
	d.Logger = logging.OrDefault(d.Logger)
	return []common.StringTool{
		sendEmailTool(d),
		readEmailQueryTool(d),
		generateQueryTool(d),
	}
}
