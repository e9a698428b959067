package gmail_tools

import (
	"context"

	"github.com/teemow/deskhand/internal/fields"
	"github.com/teemow/deskhand/internal/gmail"
	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/tools/common"
)

// SendEmailRequest is the parsed input of send_email.
type SendEmailRequest struct {
	To      string
	Subject string
	Body    string
}

func parseSendEmailRequest(input string) (SendEmailRequest, error) {
	f, err := fields.Parse(input)
	if err != nil {
		return SendEmailRequest{}, err
	}
	if err := f.Require("To", "Subject", "Body"); err != nil {
		return SendEmailRequest{}, err
	}
	req := SendEmailRequest{
		To:      f.Get("To", ""),
		Subject: f.Get("Subject", ""),
		Body:    f.Get("Body", ""),
	}
	if err := gmail.ValidateHeaderValue("To", req.To); err != nil {
		return SendEmailRequest{}, common.NewToolError(common.KindParse, err)
	}
	if err := gmail.ValidateHeaderValue("Subject", req.Subject); err != nil {
		return SendEmailRequest{}, common.NewToolError(common.KindParse, err)
	}
	return req, nil
}

// SendEmail sends req and returns the id of the sent message.
func SendEmail(ctx context.Context, d Deps, req SendEmailRequest) (string, error) {
	mailer, err := d.Mailer(ctx)
	if err != nil {
		return "", err
	}

	var id string
	err = common.External(ctx, instrumentation.ServiceGmail, instrumentation.OperationSend, func(ctx context.Context) error {
		var sendErr error
		id, sendErr = mailer.SendEmail(ctx, &gmail.EmailMessage{To: req.To, Subject: req.Subject, Body: req.Body})
		return sendErr
	})
	if err != nil {
		return "", err
	}

	d.Logger.Info("email sent", logging.Recipient(req.To), "message_id", id)
	return id, nil
}

func sendEmailTool(d Deps) common.StringTool {
	const failure = "Error sending email"
	return common.StringTool{
		Name:        "send_email",
		Description: "Sends an email using Gmail.",
		InputHelp:   "'To: user@example.com | Subject: Demo | Body: This is a test message'",
		Service:     instrumentation.ServiceGmail,
		Operation:   instrumentation.OperationSend,
		Call: func(ctx context.Context, input string) common.Result {
			req, err := parseSendEmailRequest(input)
			if err != nil {
				return common.Failure(failure, err)
			}
			id, err := SendEmail(ctx, d, req)
			if err != nil {
				return common.Failure(failure, err)
			}
			return common.Successf("✅ Email sent successfully. ID: %s", id)
		},
	}
}
