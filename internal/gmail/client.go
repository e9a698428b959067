package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail Users service for the authenticated user.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client that sends requests through httpClient.
// Extra options, such as option.WithEndpoint, are passed to the service.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// EmailMessage is a plain-text message to a single recipient line.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// ErrHeaderLineBreak reports a header value containing CR or LF.
var ErrHeaderLineBreak = errors.New("header value must not contain line breaks")

// ValidateHeaderValue rejects values that would start a new header line.
func ValidateHeaderValue(name, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%s: %w", name, ErrHeaderLineBreak)
	}
	return nil
}

// encodeRFC2047 encodes a header value containing non-ASCII characters.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// buildRaw renders msg in RFC 2822 format, base64url encoded.
func buildRaw(msg *EmailMessage) string {
	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(msg.To)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(msg.Subject))
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// SendEmail sends msg and returns the id Gmail assigned to it.
func (c *Client) SendEmail(ctx context.Context, msg *EmailMessage) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("recipient is required")
	}
	if err := ValidateHeaderValue("To", msg.To); err != nil {
		return "", err
	}
	if err := ValidateHeaderValue("Subject", msg.Subject); err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: buildRaw(msg)}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}
