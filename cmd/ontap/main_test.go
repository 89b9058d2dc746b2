package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/ontap/internal/config"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/stats"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("ontap %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(config.EnvAIAPIKey, "")
	return filepath.Join(dir, "ontap.db")
}

func TestRecordThenReportJSON(t *testing.T) {
	db := isolate(t)
	topic := syllabus.Topics(model.SubjectMath)[0]
	runCLI(t, "--db", db, "--learner", "con@gmail.com", "record", "--subject", "toan", "--topic", topic, "--correct", "--time", "30")
	runCLI(t, "--db", db, "--learner", "con@gmail.com", "record", "--subject", "toan", "--topic", "Ngoài chương trình", "--time", "30")

	out := runCLI(t, "--db", db, "--learner", "con@gmail.com", "report", "--json")
	var r stats.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if r.Learner != "con@gmail.com" || r.Attempts != 2 || r.ExcludedCount != 1 {
		t.Fatalf("unexpected report header %+v", r)
	}
	if len(r.Topics) != 1 || r.Topics[0].Topic != topic || r.Topics[0].Correct != 1 {
		t.Fatalf("unexpected topics %+v", r.Topics)
	}
}

func TestLearnersAreIsolated(t *testing.T) {
	db := isolate(t)
	topic := syllabus.Topics(model.SubjectMath)[0]
	runCLI(t, "--db", db, "--learner", "a@gmail.com", "record", "--subject", "toan", "--topic", topic)

	out := runCLI(t, "--db", db, "--learner", "b@gmail.com", "report", "--json")
	var r stats.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if r.Attempts != 0 {
		t.Fatalf("expected empty ledger for b, got %d attempts", r.Attempts)
	}
}

func TestGoalCommand(t *testing.T) {
	db := isolate(t)
	if out := runCLI(t, "--db", db, "goal"); !strings.Contains(out, "Weekly goal: 90’") {
		t.Fatalf("unexpected default goal output %q", out)
	}
	if out := runCLI(t, "--db", db, "goal", "120"); !strings.Contains(out, "Weekly goal: 120’") {
		t.Fatalf("unexpected goal output %q", out)
	}
}

func TestSubscribeRejectsNonGmail(t *testing.T) {
	db := isolate(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", db, "subscribe", "me@yahoo.com", "con@gmail.com"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "@gmail.com") {
		t.Fatalf("expected gmail validation error, got %v", err)
	}
}

func TestPlanNewShowDone(t *testing.T) {
	db := isolate(t)
	out := runCLI(t, "--db", db, "plan", "new", "--subject", "toan", "--weeks", "1", "--days", "3", "--minutes", "30")
	if !strings.Contains(out, "Hoàn thành 0/3 buổi · 0%") {
		t.Fatalf("unexpected plan output:\n%s", out)
	}
	id := ""
	for _, field := range strings.Fields(out) {
		if strings.HasSuffix(field, "-w1-d1") {
			id = field
			break
		}
	}
	if id == "" {
		t.Fatalf("task id not found in:\n%s", out)
	}
	out = runCLI(t, "--db", db, "plan", "done", id)
	if !strings.Contains(out, "Hoàn thành 1/3 buổi · ") || strings.Contains(out, "· 0%") {
		t.Fatalf("unexpected done output %q", out)
	}
	if !strings.Contains(runCLI(t, "--db", db, "plan", "show"), strings.TrimSpace(out)) {
		t.Fatalf("plan show disagrees with done output %q", out)
	}
}

func TestDigestMailto(t *testing.T) {
	db := isolate(t)
	out := runCLI(t, "--db", db, "digest", "--child", "con@gmail.com", "--mailto", "me@gmail.com")
	if !strings.HasPrefix(out, "mailto:me@gmail.com?subject=") {
		t.Fatalf("unexpected mailto %q", out)
	}
}

func TestPolicyFromConfig(t *testing.T) {
	acc := 0.9
	top := 5
	zero := true
	p := policyFromConfig(config.AnalyticsConfig{
		StrengthMinAccuracy:  &acc,
		TopN:                 &top,
		ZeroFillEmptyWindows: &zero,
	})
	def := stats.DefaultPolicy()
	if p.StrengthMinAccuracy != 0.9 || p.TopN != 5 || !p.ZeroFillEmptyWindows {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.WeaknessMaxAccuracy != def.WeaknessMaxAccuracy || p.DefaultMinutesTarget != def.DefaultMinutesTarget {
		t.Fatalf("unset fields changed: %+v", p)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	var cfg config.FileConfig
	if _, err := toml.Decode(strings.Join(lines, "\n"), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	p := policyFromConfig(cfg.Analytics)
	if p != stats.DefaultPolicy() {
		t.Fatalf("template defaults differ: %+v", p)
	}
	if cfg.Storage.Backend == nil || *cfg.Storage.Backend != "sqlite" {
		t.Fatalf("unexpected storage backend %v", cfg.Storage.Backend)
	}
}

func TestStringOr(t *testing.T) {
	blank := "  "
	v := " x "
	if stringOr(nil, "d") != "d" || stringOr(&blank, "d") != "d" || stringOr(&v, "d") != "x" {
		t.Fatalf("unexpected stringOr results")
	}
}
