package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	gmail "google.golang.org/api/gmail/v1"
)

// maxParallelFetches bounds concurrent message fetches in SearchMessages.
const maxParallelFetches = 4

// MessageSummary holds the fields shown for a message in search results.
type MessageSummary struct {
	ID      string
	From    string
	Subject string
	Body    string
}

// ListMessageIDs returns the ids of up to maxResults messages matching query,
// newest first.
func (c *Client) ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	res, err := c.svc.Messages.List("me").Q(query).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage retrieves a full Gmail message.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// SearchMessages lists messages matching query and fetches a summary of each.
// Summaries are returned in list order.
func (c *Client) SearchMessages(ctx context.Context, query string, maxResults int64) ([]*MessageSummary, error) {
	ids, err := c.ListMessageIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	summaries := make([]*MessageSummary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, id := range ids {
		g.Go(func() error {
			msg, err := c.GetMessage(gctx, id)
			if err != nil {
				return err
			}
			summaries[i] = Summarize(msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Summarize extracts sender, subject and plain-text body from msg.
func Summarize(msg *gmail.Message) *MessageSummary {
	s := &MessageSummary{ID: msg.Id, From: "(Unknown)", Subject: "(No subject)"}
	if msg.Payload == nil {
		return s
	}
	if v := headerValue(msg.Payload.Headers, "From"); v != "" {
		s.From = v
	}
	if v := headerValue(msg.Payload.Headers, "Subject"); v != "" {
		s.Subject = v
	}
	s.Body = PlainTextBody(msg.Payload)
	return s
}

func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// PlainTextBody returns the first decodable text/plain part of payload, or "".
func PlainTextBody(payload *gmail.MessagePart) string {
	var body string
	walkParts(payload, func(part *gmail.MessagePart) bool {
		if part.MimeType != "text/plain" || part.Body == nil || part.Body.Data == "" {
			return true
		}
		decoded, err := decodeBody(part.Body.Data)
		if err != nil {
			return true
		}
		body = decoded
		return false
	})
	return body
}

// walkParts visits part and its descendants depth-first until fn returns false.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart) bool) bool {
	if part == nil {
		return true
	}
	if !fn(part) {
		return false
	}
	for _, sub := range part.Parts {
		if !walkParts(sub, fn) {
			return false
		}
	}
	return true
}

func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return "", fmt.Errorf("failed to decode message body: %w", err)
		}
	}
	return string(decoded), nil
}
