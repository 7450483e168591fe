// Package notify provides implementations of the reset-link dispatcher:
// direct email over Amazon SES, a broker-backed publisher, and a log-only
// fallback for local development.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESNotifier sends the reset link by email via Amazon SES.
type SESNotifier struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
}

// NewSESNotifier loads the default AWS configuration for the given region
// and returns a notifier sending from the given address.
func NewSESNotifier(ctx context.Context, region, fromEmail, fromName string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESNotifier{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendResetLink emails the reset URL to the recipient.
func (n *SESNotifier) SendResetLink(ctx context.Context, email, resetURL string) error {
	subject := "Password Reset Request"
	textBody := fmt.Sprintf(
		"You requested a password reset. Please click the link to reset your password: %s\n\n"+
			"The link expires in 10 minutes. If you did not request a reset, you can ignore this email.",
		resetURL)
	htmlBody := fmt.Sprintf(
		`<p>You requested a password reset.</p><p><a href=%q>Reset your password</a></p>`+
			`<p>The link expires in 10 minutes. If you did not request a reset, you can ignore this email.</p>`,
		resetURL)

	from := n.fromEmail
	if n.fromName != "" {
		from = fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)
	}
	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
