// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Profile   ProfileConfig   `toml:"profile"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Storage   StorageConfig   `toml:"storage"`
	AI        AIConfig        `toml:"ai"`
	Mail      MailConfig      `toml:"mail"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// ProfileConfig identifies the learner whose ledger is used.
type ProfileConfig struct {
	Learner *string `toml:"learner"`
}

// AnalyticsConfig maps the classifier and digest thresholds.
type AnalyticsConfig struct {
	StrengthMinAccuracy     *float64 `toml:"strength-min-accuracy"`
	StrengthMinAttempts     *int     `toml:"strength-min-attempts"`
	WeaknessMaxAccuracy     *float64 `toml:"weakness-max-accuracy"`
	DecliningMaxAccuracy    *float64 `toml:"declining-max-accuracy"`
	MinTrendSamples         *int     `toml:"min-trend-samples"`
	SubjectAlertTrend       *int     `toml:"subject-alert-trend"`
	SubjectAlertMinAttempts *int     `toml:"subject-alert-min-attempts"`
	DigestRedChange         *int     `toml:"digest-red-change"`
	DigestMinutesRatio      *float64 `toml:"digest-minutes-ratio"`
	DigestLowAccuracy       *int     `toml:"digest-low-accuracy"`
	DefaultMinutesTarget    *int     `toml:"default-minutes-target"`
	TopN                    *int     `toml:"top-n"`
	ZeroFillEmptyWindows    *bool    `toml:"zero-fill-empty-windows"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend     *string `toml:"backend"`
	Path        *string `toml:"path"`
	RedisAddr   *string `toml:"redis-addr"`
	RedisPrefix *string `toml:"redis-prefix"`
}

// AIConfig maps the generative-AI endpoint settings.
type AIConfig struct {
	BaseURL *string `toml:"base-url"`
	Model   *string `toml:"model"`
	Timeout *string `toml:"timeout"`
}

// MailConfig maps digest e-mail settings.
type MailConfig struct {
	From         *string `toml:"from"`
	FromName     *string `toml:"from-name"`
	Region       *string `toml:"region"`
	ShareBaseURL *string `toml:"share-base-url"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Mode  *string `toml:"mode"`
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
