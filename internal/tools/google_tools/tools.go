package google_tools

import (
	"context"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/common"
)

// Authenticator ensures a valid Google credential exists.
type Authenticator interface {
	EnsureValid(ctx context.Context) (*oauth2.Token, error)
}

// Deps are the collaborators of the Google tools.
type Deps struct {
	Authenticator Authenticator
	Logger        *slog.Logger
}

// FromServerContext builds Deps backed by the server's credential provider.
func FromServerContext(sc *server.ServerContext) Deps {
	return Deps{Authenticator: sc.Credentials(), Logger: sc.Logger()}
}

// Tools returns the Google authentication tools.
func Tools(d Deps) []common.StringTool {
	d.Logger = logging.OrDefault(d.Logger)
	return []common.StringTool{authenticateTool(d)}
}

// Authenticate ensures a valid token is stored.
func Authenticate(ctx context.Context, d Deps) error {
	tok, err := d.Authenticator.EnsureValid(ctx)
	if err != nil {
		return err
	}
	d.Logger.Info("google credential ready", "access_token", logging.SanitizeToken(tok.AccessToken), "expiry", tok.Expiry)
	return nil
}

func authenticateTool(d Deps) common.StringTool {
	return common.StringTool{
		Name:        "authenticate_google",
		Description: "Authenticates the Google account and stores the token for later use. Returns a success or error message.",
		InputHelp:   "Ignored",
		Service:     instrumentation.ServiceGoogle,
		Operation:   instrumentation.OperationAuth,
		Call: func(ctx context.Context, _ string) common.Result {
			if err := Authenticate(ctx, d); err != nil {
				return common.Failure("Google authentication failed", err)
			}
			return common.Success("✅ Google authentication successful.")
		},
	}
}
