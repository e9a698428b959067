// Package gmail provides a small client for the Gmail API covering the two
// operations deskhand needs: sending a plain-text message and reading
// messages that match a search query.
//
// The client is built from an authorized *http.Client, normally obtained from
// google.CredentialProvider.HTTPClient:
//
//	httpClient, err := provider.HTTPClient(ctx)
//	client, err := gmail.NewClient(ctx, httpClient)
//	id, err := client.SendEmail(ctx, &gmail.EmailMessage{
//	    To:      "recipient@example.com",
//	    Subject: "Hello",
//	    Body:    "This is a test email",
//	})
//
//	summaries, err := client.SearchMessages(ctx, "subject:[BUG]", 10)
package gmail
