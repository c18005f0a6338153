// Package mailer delivers verification secrets to the address being
// verified.
package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/authority/internal/logging"
)

// Verification is one message carrying a secret to an address.
type Verification struct {
	Email  string
	Secret string
}

// Link returns the verification URL for v under baseURL.
func (v Verification) Link(baseURL string) string {
	q := url.Values{}
	q.Set("secret", v.Secret)
	return baseURL + "?" + q.Encode()
}

// Body renders the message text.
func (v Verification) Body(baseURL string) string {
	return fmt.Sprintf("To: %s\nSubject: Verify your email\n\nOpen %s to confirm %s.\nThe code is %s.\n",
		v.Email, v.Link(baseURL), v.Email, v.Secret)
}

type Mailer interface {
	SendVerification(ctx context.Context, v Verification) error
}

// LogMailer writes the verification link to the log instead of sending
// anything. Intended for development only: the link, which carries the
// secret, is logged at debug level, so a server at info level delivers
// nothing.
type LogMailer struct {
	logger  logging.Logger
	baseURL string
}

func NewLogMailer(l logging.Logger, baseURL string) *LogMailer {
	return &LogMailer{logger: l.With("module", "mailer"), baseURL: baseURL}
}

func (m *LogMailer) SendVerification(ctx context.Context, v Verification) error {
	m.logger.Info(ctx, "verification queued", "email", v.Email)
	m.logger.Debug(ctx, "verification link", "email", v.Email, "link", v.Link(m.baseURL))
	return nil
}
