package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/notify"
	"github.com/verte-zerg/ontap/internal/stats"
	"github.com/verte-zerg/ontap/internal/subscription"
)

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <parent-gmail> <child-gmail>",
		Short: "Subscribe a parent to a learner's weekly digest",
		Args:  cobra.ExactArgs(2),
		RunE:  runSubscribeCmd,
	}
}

func runSubscribeCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sub, err := a.registry().Subscribe(cmd.Context(), args[0], args[1])
	if err != nil {
		var verr subscription.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Message)
		}
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Subscribed %s to %s (id %s)\n", sub.ParentEmail, sub.ChildEmail, sub.ID); err != nil {
		return err
	}
	if base := stringOr(a.cfg.Mail.ShareBaseURL, ""); base != "" {
		_, err = fmt.Fprintf(out, "Share link: %s\n", notify.ShareLink(base, sub.Token))
	}
	return err
}

func newUnsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <id>",
		Short: "Remove a subscription",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnsubscribeCmd,
	}
}

func runUnsubscribeCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return a.registry().Remove(cmd.Context(), args[0])
}

func newSubscriptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions",
		Short: "List parent subscriptions",
		Args:  cobra.NoArgs,
		RunE:  runSubscriptionsCmd,
	}
}

func runSubscriptionsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	subs := a.registry().List(cmd.Context())
	if len(subs) == 0 {
		logErrln("No subscriptions yet. Add one with: ontap subscribe <parent> <child>")
		return nil
	}
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		created := time.UnixMilli(s.CreatedAt).Format("2006-01-02")
		rows = append(rows, []string{s.ID, s.ParentEmail, s.ChildEmail, created, strconv.FormatBool(s.IsEnabled)})
	}
	return stats.RenderTable(cmd.OutOrStdout(), []string{"ID", "PARENT", "CHILD", "CREATED", "ENABLED"}, rows)
}
