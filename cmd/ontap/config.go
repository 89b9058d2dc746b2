package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/ai"
	"github.com/verte-zerg/ontap/internal/config"
	"github.com/verte-zerg/ontap/internal/stats"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	p := stats.DefaultPolicy()
	return fmt.Sprintf(`# ontap configuration
# Uncomment a value to enable it. CLI flags override config values.
# The AI key is read from %s (environment or %s).

[profile]
# learner = "con@gmail.com"       # Learner e-mail that namespaces the ledger

[analytics]
# strength-min-accuracy = %.2f
# strength-min-attempts = %d
# weakness-max-accuracy = %.2f
# declining-max-accuracy = %.2f
# min-trend-samples = %d
# subject-alert-trend = %d
# subject-alert-min-attempts = %d
# digest-red-change = %d
# digest-minutes-ratio = %.2f
# digest-low-accuracy = %d
# default-minutes-target = %d
# top-n = %d
# zero-fill-empty-windows = false

[storage]
# backend = "sqlite"              # sqlite, redis or memory
# path = %q
# redis-addr = "localhost:6379"
# redis-prefix = "ontap:"

[ai]
# base-url = %q
# model = %q
# timeout = %q

[mail]
# from = "reports@example.com"    # Enables SES delivery for "ontap digest --send"
# from-name = "Ôn tập"
# region = "ap-southeast-1"
# share-base-url = "https://example.com"

[server]
# addr = %q

[log]
# mode = "dev"                    # dev or prod
# level = "warn"
`,
		config.EnvAIAPIKey,
		config.DefaultEnvPath(),
		p.StrengthMinAccuracy,
		p.StrengthMinAttempts,
		p.WeaknessMaxAccuracy,
		p.DecliningMaxAccuracy,
		p.MinTrendSamples,
		p.SubjectAlertTrend,
		p.SubjectAlertMinAttempts,
		p.DigestRedChange,
		p.DigestMinutesRatio,
		p.DigestLowAccuracy,
		p.DefaultMinutesTarget,
		p.TopN,
		config.DefaultDBPath(),
		ai.DefaultBaseURL,
		ai.DefaultModel,
		ai.DefaultTimeout.String(),
		defaultAddr,
	)
}
