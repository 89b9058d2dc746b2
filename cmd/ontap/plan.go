package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/plan"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

var (
	planSubject     string
	planWeeks       int
	planDays        int
	planMinutes     int
	planLevel       string
	planGoal        string
	planPracticeURL string
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage the study plan",
	}
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new plan from recent weak topics",
		Args:  cobra.NoArgs,
		RunE:  runPlanNewCmd,
	}
	newCmd.Flags().StringVar(&planSubject, "subject", string(model.SubjectMath), "subject code")
	newCmd.Flags().IntVar(&planWeeks, "weeks", 4, "number of weeks (1-52)")
	newCmd.Flags().IntVar(&planDays, "days", 5, "study days per week (1-7)")
	newCmd.Flags().IntVar(&planMinutes, "minutes", 40, "minutes per study day")
	newCmd.Flags().StringVar(&planLevel, "level", string(model.LevelAverage), "level (yeu, trung-binh, kha, gioi)")
	newCmd.Flags().StringVar(&planGoal, "goal", "", "free-text goal")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current plan",
		Args:  cobra.NoArgs,
		RunE:  runPlanShowCmd,
	}
	showCmd.Flags().StringVar(&planPracticeURL, "practice-url", plan.DefaultPracticePath, "base URL for practice links")

	doneCmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task's done flag",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlanDoneCmd,
	}
	cmd.AddCommand(newCmd, showCmd, doneCmd)
	return cmd
}

func runPlanNewCmd(cmd *cobra.Command, _ []string) error {
	subject, err := model.ParseSubject(planSubject)
	if err != nil {
		return err
	}
	level, err := model.ParseLevel(planLevel)
	if err != nil {
		return err
	}
	params := plan.Params{
		Subject:       subject,
		Weeks:         planWeeks,
		DaysPerWeek:   planDays,
		MinutesPerDay: planMinutes,
		Level:         level,
		Goal:          strings.TrimSpace(planGoal),
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	p, err := plan.GeneratePlan(params, a.ledger().Load(ctx), a.engine, time.Now())
	if err != nil {
		return err
	}
	if err := a.plans().Save(ctx, p); err != nil {
		return err
	}
	return renderPlan(cmd.OutOrStdout(), p, plan.DefaultPracticePath)
}

func runPlanShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p := a.plans().Load(cmd.Context())
	if p == nil {
		logErrln("No plan yet. Create one with: ontap plan new --subject toan")
		return nil
	}
	return renderPlan(cmd.OutOrStdout(), *p, planPracticeURL)
}

func runPlanDoneCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	store := a.plans()
	p := store.Load(ctx)
	if p == nil {
		return fmt.Errorf("no current plan")
	}
	updated, ok := plan.ToggleTaskDone(*p, args[0])
	if !ok {
		return fmt.Errorf("unknown task %q", args[0])
	}
	if err := store.Save(ctx, updated); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), progressLine(updated))
	return err
}

func renderPlan(w io.Writer, p model.StudyPlan, practiceBase string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %s: %s, %d weeks × %d days × %d’ (%s)\n",
		p.ID, syllabus.Label(p.Subject), p.Weeks, p.DaysPerWeek, p.MinutesPerDay, p.Level)
	if p.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	}
	fmt.Fprintln(&b, progressLine(p))
	week := 0
	for _, t := range p.Tasks {
		if t.Week != week {
			week = t.Week
			fmt.Fprintf(&b, "\nWeek %d\n", week)
		}
		mark := " "
		if t.Done {
			mark = "x"
		}
		star := ""
		if t.Recommended {
			star = " *"
		}
		fmt.Fprintf(&b, "  [%s] %s  %-8s %3d’  %s%s\n", mark, t.ID, t.Type, t.Minutes, t.Topic, star)
		if t.Exercise != nil {
			fmt.Fprintf(&b, "        %s\n", t.Exercise.Title)
			fmt.Fprintf(&b, "        %s\n", plan.PracticeLinkForPack(practiceBase, t.Subject, t.Topic, t.Exercise))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// progressLine reports finished sessions and the share of planned minutes done.
func progressLine(p model.StudyPlan) string {
	done, total := plan.TaskProgress(p)
	return fmt.Sprintf("Hoàn thành %d/%d buổi · %d%%", done, total, plan.PercentDone(p))
}
