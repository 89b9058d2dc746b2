package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/config"
	"github.com/verte-zerg/ontap/internal/ledger"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/notify"
	"github.com/verte-zerg/ontap/internal/plan"
	"github.com/verte-zerg/ontap/internal/server"
	"github.com/verte-zerg/ontap/internal/stats"
	"github.com/verte-zerg/ontap/internal/subscription"
)

const defaultTopicLimit = 10

var (
	reportJSON   bool
	reportAI     bool
	reportDays   int
	reportWindow int
	reportTopics int

	digestChild  string
	digestSend   bool
	digestMailto string
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the learning report",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&reportAI, "ai", false, "append the AI learning-profile suggestion")
	cmd.Flags().IntVar(&reportDays, "days", defaultDays, "days in the daily series")
	cmd.Flags().IntVar(&reportWindow, "window", defaultWindow, "moving average window")
	cmd.Flags().IntVar(&reportTopics, "topics", defaultTopicLimit, "max topics to list (0 for all)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	if reportDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if reportWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	r := stats.BuildReport(ctx, a.ledger(), a.engine, a.plans().Load(ctx), reportDays)

	var profile *model.LearningProfile
	if reportAI {
		tutor, err := a.tutor()
		if err != nil {
			return err
		}
		if !tutor.Configured() {
			logErrln("AI is not configured; using the local profile summary")
		}
		p := tutor.LearningProfile(ctx, r.Mastery, r.Profile)
		profile = &p
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		return writeJSON(out, struct {
			stats.Report
			LearningProfile *model.LearningProfile `json:"learningProfile,omitempty"`
		}{r, profile})
	}
	if err := stats.RenderReport(out, r, reportTopics, reportWindow); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if profile != nil {
		return renderLearningProfile(out, *profile)
	}
	return nil
}

func renderLearningProfile(w io.Writer, p model.LearningProfile) error {
	var b strings.Builder
	b.WriteString("\nAI learning profile:\n")
	for _, s := range p.Strengths {
		fmt.Fprintf(&b, "  + %s: %s\n", s.Subject, s.Topic)
	}
	for _, s := range p.Weaknesses {
		fmt.Fprintf(&b, "  - %s: %s\n", s.Subject, s.Topic)
	}
	for _, r := range p.Recommendations {
		fmt.Fprintf(&b, "  * %s\n", r)
	}
	if p.MotivationalQuote != "" {
		fmt.Fprintf(&b, "  “%s”\n", p.MotivationalQuote)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Show or send the weekly parent digest",
		Args:  cobra.NoArgs,
		RunE:  runDigestCmd,
	}
	cmd.Flags().StringVar(&digestChild, "child", "", "learner e-mail (default: --learner)")
	cmd.Flags().BoolVar(&digestSend, "send", false, "e-mail every enabled subscription its digest")
	cmd.Flags().StringVar(&digestMailto, "mailto", "", "print a mailto: link addressed to this parent")
	return cmd
}

func runDigestCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if digestSend {
		return sendDigests(cmd, a)
	}

	child := strings.TrimSpace(digestChild)
	if child == "" {
		child = a.learner
	}
	led := ledger.New(a.slot, ledger.WithLearner(child), ledger.WithLogger(a.log))
	current := plan.NewStore(a.slot, child, a.log).Load(ctx)
	d := a.engine.WeeklyDigest(child, led.Load(ctx), current)

	if digestMailto != "" {
		if !subscription.IsGmail(digestMailto) {
			return fmt.Errorf("%s", subscription.InvalidEmailMessage)
		}
		_, err := fmt.Fprintln(out, notify.MailtoLink(digestMailto, d))
		return err
	}
	return stats.RenderDigest(out, d)
}

func sendDigests(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	mailer, err := notify.NewSESMailer(ctx,
		stringOr(a.cfg.Mail.Region, ""),
		stringOr(a.cfg.Mail.From, ""),
		stringOr(a.cfg.Mail.FromName, ""),
		a.log,
	)
	if err != nil {
		return err
	}
	if !mailer.Enabled() {
		return fmt.Errorf("mail is not configured; set [mail] from in %s", config.DefaultConfigPath())
	}
	analytics := server.NewLedgerAnalytics(a.slot, a.engine, a.log)
	res, err := notify.SendDigests(ctx, a.registry(), analytics.Digest, mailer, stringOr(a.cfg.Mail.ShareBaseURL, ""))
	logErrf("Sent %d, skipped %d, failed %d\n", res.Sent, res.Skipped, res.Failed)
	return err
}
