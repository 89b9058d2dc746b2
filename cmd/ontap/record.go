package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/generator"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

const defaultDemoDays = 21

var (
	recordSubject    string
	recordTopic      string
	recordCorrect    bool
	recordDifficulty string
	recordTime       int

	demoDays  int
	demoToday int
	demoSeed  int64
	demoReset bool
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one answered question",
		Args:  cobra.NoArgs,
		RunE:  runRecordCmd,
	}
	cmd.Flags().StringVar(&recordSubject, "subject", "", "subject code (e.g. toan, ngu-van)")
	cmd.Flags().StringVar(&recordTopic, "topic", "", "syllabus topic")
	cmd.Flags().BoolVar(&recordCorrect, "correct", false, "the answer was correct")
	cmd.Flags().StringVar(&recordDifficulty, "difficulty", "", "difficulty (E, M, H)")
	cmd.Flags().IntVar(&recordTime, "time", 0, "seconds spent on the question")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func parseRecord() (model.Attempt, error) {
	subject, err := model.ParseSubject(recordSubject)
	if err != nil {
		return model.Attempt{}, err
	}
	topic := strings.TrimSpace(recordTopic)
	if topic == "" {
		return model.Attempt{}, fmt.Errorf("--topic must not be empty")
	}
	diff, err := model.ParseDifficulty(recordDifficulty)
	if err != nil {
		return model.Attempt{}, err
	}
	if recordTime < 0 {
		return model.Attempt{}, fmt.Errorf("--time must be >= 0")
	}
	return model.Attempt{
		Subject:      subject,
		Topic:        topic,
		Correct:      recordCorrect,
		Difficulty:   diff,
		TimeSpentSec: recordTime,
	}, nil
}

func runRecordCmd(cmd *cobra.Command, _ []string) error {
	attempt, err := parseRecord()
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if !syllabus.IsSyllabusTopic(attempt.Subject, attempt.Topic) {
		logErrf("warning: %q is not a %s syllabus topic; it will be ignored by reports\n", attempt.Topic, syllabus.Label(attempt.Subject))
	}
	if err := a.ledger().Append(cmd.Context(), attempt); err != nil {
		return err
	}
	verdict := "wrong"
	if attempt.Correct {
		verdict = "correct"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s answer for %s / %s\n", verdict, syllabus.Label(attempt.Subject), attempt.Topic)
	return err
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fill the ledger with synthetic attempts",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	cmd.Flags().IntVar(&demoDays, "days", defaultDemoDays, "days of history to generate")
	cmd.Flags().IntVar(&demoToday, "today", 0, "only add N attempts for today")
	cmd.Flags().Int64Var(&demoSeed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().BoolVar(&demoReset, "reset", false, "replace the existing ledger instead of appending")
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	if demoDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if demoToday < 0 {
		return fmt.Errorf("--today must be >= 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	gen := generator.New()
	if demoSeed != 0 {
		gen = generator.NewSeeded(demoSeed)
	}
	now := time.Now()
	var list []model.Attempt
	if demoToday > 0 {
		list = gen.Today(now, demoToday)
	} else {
		list = gen.Demo(now, demoDays)
	}

	led := a.ledger()
	if demoReset {
		err = led.Save(cmd.Context(), list)
	} else {
		err = led.Append(cmd.Context(), list...)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %d demo attempts\n", len(list))
	return err
}

func newGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goal [minutes]",
		Short: "Show or set the weekly study goal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGoalCmd,
	}
}

func runGoalCmd(cmd *cobra.Command, args []string) error {
	minutes := 0
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("goal must be a positive number of minutes")
		}
		minutes = v
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	led := a.ledger()
	if minutes > 0 {
		if err := led.SetWeeklyGoalMin(cmd.Context(), minutes); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Weekly goal: %d’\n", led.WeeklyGoalMin(cmd.Context()))
	return err
}
