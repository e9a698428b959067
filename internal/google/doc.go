// Package google manages the single OAuth2 credential deskhand uses for the
// Gmail and Calendar APIs.
//
// A CredentialProvider loads the persisted token, refreshes it when it has
// expired, and falls back to an interactive Authorizer when no usable token is
// available. The resulting token is always written back through the
// TokenStore before it is returned.
//
//	cfg, _ := google.LoadConfig("client_secret.json")
//	p := google.NewCredentialProvider(google.NewFileTokenStore("token.json"),
//		google.NewLoopbackAuthorizer(os.Stderr), google.WithConfig(cfg))
//	client, err := p.HTTPClient(ctx)
package google
