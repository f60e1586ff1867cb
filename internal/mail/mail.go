package mail

import (
	"context"
	"fmt"
)

// Sender delivers transactional mail. Auth flows treat delivery as part of
// the operation: a failed send fails the request before any token is stored.
type Sender interface {
	// SendVerification mails the email verification link after registration.
	SendVerification(ctx context.Context, to, name, token string) error

	// SendPasswordReset mails the password reset link.
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

func verificationBody(name, link string) string {
	return fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Welcome! Please confirm your email address by opening the link below:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 24 hours. If you did not create this account, ignore this message.\r\n",
		name, link,
	)
}

func resetBody(name, link string) string {
	return fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"We received a request to reset your password. Open the link below to choose a new one:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in 15 minutes. If you did not request a reset, ignore this message.\r\n",
		name, link,
	)
}
