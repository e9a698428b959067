package google

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Authorizer runs an interactive consent flow and returns a fresh token.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	return f(ctx, cfg)
}

// LoopbackAuthorizer performs the installed-app flow: it serves a redirect
// endpoint on 127.0.0.1, prints the consent URL, and exchanges the returned
// code. It blocks until the redirect arrives or ctx ends.
type LoopbackAuthorizer struct {
	// Out receives the consent URL.
	Out io.Writer
	// OpenBrowser is called with the consent URL. Errors are ignored.
	OpenBrowser func(url string) error
	// ListenAddr defaults to 127.0.0.1:0.
	ListenAddr string
}

// NewLoopbackAuthorizer returns an authorizer that prints to out and tries to
// open the system browser.
func NewLoopbackAuthorizer(out io.Writer) *LoopbackAuthorizer {
	if out == nil {
		out = os.Stderr
	}
	return &LoopbackAuthorizer{Out: out, OpenBrowser: openBrowser}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	addr := a.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start redirect listener: %w", err)
	}

	conf := *cfg
	conf.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if a.Out != nil {
		fmt.Fprintf(a.Out, "Open the following URL in your browser to authorize deskhand:\n\n%s\n\n", authURL)
	}
	if a.OpenBrowser != nil {
		_ = a.OpenBrowser(authURL)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization aborted: %w", ctx.Err())
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := conf.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("code") == "" && q.Get("error") == "" {
			http.NotFound(w, r)
			return
		}

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			res.err = errors.New("authorization state mismatch")
		default:
			res.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<p>Authorization failed: %s</p>", html.EscapeString(res.err.Error()))
		} else {
			fmt.Fprint(w, "<p>Authorization complete. You can close this window.</p>")
		}

		select {
		case results <- res:
		default:
		}
	})
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
