package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/ai"
	"github.com/verte-zerg/ontap/internal/config"
	"github.com/verte-zerg/ontap/internal/ledger"
	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/plan"
	"github.com/verte-zerg/ontap/internal/stats"
	"github.com/verte-zerg/ontap/internal/store"
	"github.com/verte-zerg/ontap/internal/subscription"
)

// app bundles what every subcommand needs once config is resolved.
type app struct {
	cfg     config.FileConfig
	log     *logger.Logger
	slot    store.Slot
	engine  stats.Engine
	learner string
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.LoadEnv(config.DefaultEnvPath()); err != nil {
		logErrf("%v\n", err)
	}

	applyStringConfig(cmd, "learner", &globalLearner, fileCfg.Profile.Learner)
	applyStringConfig(cmd, "storage", &globalBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "db", &globalDBPath, fileCfg.Storage.Path)
	applyStringConfig(cmd, "log-level", &globalLogLevel, fileCfg.Log.Level)

	mode := "development"
	if fileCfg.Log.Mode != nil {
		mode = *fileCfg.Log.Mode
	}
	log, err := logger.New(mode, globalLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	policy := policyFromConfig(fileCfg.Analytics)
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [analytics] config: %w", err)
	}

	opts := store.Options{
		Backend:     store.Backend(globalBackend),
		Path:        globalDBPath,
		RedisAddr:   stringOr(fileCfg.Storage.RedisAddr, "localhost:6379"),
		RedisPrefix: stringOr(fileCfg.Storage.RedisPrefix, "ontap:"),
	}
	if opts.Path == "" {
		opts.Path = config.DefaultDBPath()
	}
	slot, err := store.Open(cmd.Context(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &app{
		cfg:     fileCfg,
		log:     log,
		slot:    slot,
		engine:  stats.NewEngine(policy, time.Now),
		learner: strings.TrimSpace(globalLearner),
	}, nil
}

func (a *app) close() {
	if cerr := a.slot.Close(); cerr != nil {
		logErrf("failed to close storage: %v\n", cerr)
	}
	a.log.Sync()
}

func (a *app) ledger() *ledger.Ledger {
	return ledger.New(a.slot, ledger.WithLearner(a.learner), ledger.WithLogger(a.log))
}

func (a *app) plans() *plan.Store {
	return plan.NewStore(a.slot, a.learner, a.log)
}

func (a *app) registry() *subscription.Registry {
	return subscription.New(a.slot, subscription.WithLogger(a.log))
}

// tutor returns an AI tutor. Without an API key it answers with fallbacks.
func (a *app) tutor() (*ai.Tutor, error) {
	key := config.AIAPIKey()
	if key == "" {
		return ai.NewTutor(nil, a.log), nil
	}
	cfg := ai.Config{
		BaseURL: stringOr(a.cfg.AI.BaseURL, ""),
		Model:   stringOr(a.cfg.AI.Model, ""),
		APIKey:  key,
	}
	if a.cfg.AI.Timeout != nil {
		d, err := time.ParseDuration(*a.cfg.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid [ai] timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return ai.NewTutor(ai.NewClient(cfg), a.log), nil
}

func policyFromConfig(c config.AnalyticsConfig) stats.Policy {
	p := stats.DefaultPolicy()
	setFloat(&p.StrengthMinAccuracy, c.StrengthMinAccuracy)
	setInt(&p.StrengthMinAttempts, c.StrengthMinAttempts)
	setFloat(&p.WeaknessMaxAccuracy, c.WeaknessMaxAccuracy)
	setFloat(&p.DecliningMaxAccuracy, c.DecliningMaxAccuracy)
	setInt(&p.MinTrendSamples, c.MinTrendSamples)
	setInt(&p.SubjectAlertTrend, c.SubjectAlertTrend)
	setInt(&p.SubjectAlertMinAttempts, c.SubjectAlertMinAttempts)
	setInt(&p.DigestRedChange, c.DigestRedChange)
	setFloat(&p.DigestMinutesRatio, c.DigestMinutesRatio)
	setInt(&p.DigestLowAccuracy, c.DigestLowAccuracy)
	setInt(&p.DefaultMinutesTarget, c.DefaultMinutesTarget)
	setInt(&p.TopN, c.TopN)
	if c.ZeroFillEmptyWindows != nil {
		p.ZeroFillEmptyWindows = *c.ZeroFillEmptyWindows
	}
	return p
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func stringOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
