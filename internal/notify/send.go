package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/ontap/internal/model"
)

// Subscriptions lists the registered subscriptions.
type Subscriptions interface {
	List(ctx context.Context) []model.Subscription
}

// DigestBuilder builds the current digest for a learner.
type DigestBuilder func(ctx context.Context, childEmail string) model.WeeklyDigest

// SendResult counts a digest run.
type SendResult struct {
	Sent    int
	Skipped int
	Failed  int
}

// SendDigests mails every enabled subscription its child's digest. Failures
// for one recipient do not stop the others; they are joined into the error.
func SendDigests(ctx context.Context, subs Subscriptions, build DigestBuilder, mailer Mailer, shareBaseURL string) (SendResult, error) {
	var res SendResult
	var errs []error
	for _, s := range subs.List(ctx) {
		if !s.IsEnabled {
			res.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, errors.Join(append(errs, err)...)
		}
		link := ""
		if shareBaseURL != "" {
			link = ShareLink(shareBaseURL, s.Token)
		}
		email, err := DigestEmail(s.ParentEmail, build(ctx, s.ChildEmail), link)
		if err == nil {
			err = mailer.Send(ctx, email)
		}
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("digest for %s: %w", s.ParentEmail, err))
			continue
		}
		res.Sent++
	}
	return res, errors.Join(errs...)
}
