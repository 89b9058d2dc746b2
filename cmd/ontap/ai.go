package main

import (
	"bufio"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/ai"
	"github.com/verte-zerg/ontap/internal/config"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/quiz"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

const defaultQuizQuestions = 5

var (
	quizSubject    string
	quizTopic      string
	quizCount      int
	quizDifficulty string
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take an AI-generated mock test and record the answers",
		Args:  cobra.NoArgs,
		RunE:  runQuizCmd,
	}
	cmd.Flags().StringVar(&quizSubject, "subject", string(model.SubjectMath), "subject code")
	cmd.Flags().StringVar(&quizTopic, "topic", "", "syllabus topic (default: weakest topic)")
	cmd.Flags().IntVar(&quizCount, "num", defaultQuizQuestions, "number of questions (1-50)")
	cmd.Flags().StringVar(&quizDifficulty, "diff", "", "difficulty recorded with each answer (E, M, H)")
	return cmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	subject, err := model.ParseSubject(quizSubject)
	if err != nil {
		return err
	}
	diff, err := model.ParseDifficulty(quizDifficulty)
	if err != nil {
		return err
	}
	if quizCount < 1 || quizCount > 50 {
		return fmt.Errorf("--num must be within [1,50]")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tutor, err := a.tutor()
	if err != nil {
		return err
	}
	if !tutor.Configured() {
		return fmt.Errorf("AI is not configured; set %s", config.EnvAIAPIKey)
	}

	ctx := cmd.Context()
	led := a.ledger()
	topic := strings.TrimSpace(quizTopic)
	if topic == "" {
		topic = pickQuizTopic(subject, a.engine.WeakTopics(subject, led.Load(ctx)))
	}
	logErrf("Generating %d questions on %s / %s...\n", quizCount, syllabus.Label(subject), topic)
	questions := tutor.MockTest(ctx, subject, quizCount, topic)
	if len(questions) == 0 {
		return fmt.Errorf("no questions could be generated; try again later")
	}

	m := quiz.NewModel(quiz.Config{Subject: subject, Topic: topic, Difficulty: diff}, questions, led, a.log)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run quiz: %w", err)
	}
	correct, incorrect := m.Score()
	logErrf("Recorded %d answers (%d correct)\n", correct+incorrect, correct)
	return nil
}

func pickQuizTopic(subject model.Subject, weak []string) string {
	if len(weak) > 0 {
		return weak[0]
	}
	if topics := syllabus.Topics(subject); len(topics) > 0 {
		return topics[0]
	}
	return ""
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask the AI tutor (interactive without arguments)",
		RunE:  runChatCmd,
	}
}

func runChatCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tutor, err := a.tutor()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, tutor.Chat(ctx, nil, strings.Join(args, " ")))
		return err
	}

	var history []ai.Message
	scanner := bufio.NewScanner(cmd.InOrStdin())
	logErrln("Type a question, empty line to quit.")
	for {
		if _, err := fmt.Fprint(out, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			return nil
		}
		reply := tutor.Chat(ctx, history, prompt)
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return err
		}
		history = append(history,
			ai.Message{Role: "user", Content: prompt},
			ai.Message{Role: "assistant", Content: reply},
		)
	}
}
