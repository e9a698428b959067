package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackAuthorizer_ExchangesCode(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"granted","refresh_token":"r","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	a := &LoopbackAuthorizer{
		OpenBrowser: func(consentURL string) error {
			u, err := url.Parse(consentURL)
			if err != nil {
				return err
			}
			q := u.Query()
			assert.Equal(t, "offline", q.Get("access_type"))
			redirect := q.Get("redirect_uri") + "?code=the-code&state=" + url.QueryEscape(q.Get("state"))
			go func() {
				resp, err := http.Get(redirect)
				if err == nil {
					_ = resp.Body.Close()
				}
			}()
			return nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tok, err := a.Authorize(ctx, testConfig(tokenSrv.URL))
	require.NoError(t, err)
	assert.Equal(t, "granted", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
}

func TestLoopbackAuthorizer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &LoopbackAuthorizer{OpenBrowser: func(string) error { cancel(); return nil }}

	_, err := a.Authorize(ctx, testConfig("http://127.0.0.1:1/token"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    bool
		wantResult bool
	}{
		{"valid", "?code=abc&state=s1", http.StatusOK, "abc", false, true},
		{"state mismatch", "?code=abc&state=other", http.StatusBadRequest, "", true, true},
		{"denied", "?error=access_denied&state=s1", http.StatusBadRequest, "", true, true},
		{"unrelated path", "", http.StatusNotFound, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			rec := httptest.NewRecorder()
			callbackHandler("s1", results).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if !tt.wantResult {
				assert.Empty(t, results)
				return
			}
			res := <-results
			assert.Equal(t, tt.wantCode, res.code)
			assert.Equal(t, tt.wantErr, res.err != nil)
		})
	}
}
