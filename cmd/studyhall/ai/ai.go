// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package ai implements the ai command group: assistant answers,
// thread summaries, content moderation checks, and question
// enhancement.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	"github.com/studyhall-dev/studyhall/lib/mdterm"
)

// Command returns the ai command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "ai",
		Summary: "Assistant features",
		Subcommands: []*cli.Command{
			answerCommand(),
			summarizeCommand(),
			moderateCommand(),
			enhanceCommand(),
		},
	}
}

func answerCommand() *cli.Command {
	return &cli.Command{
		Name:    "answer",
		Summary: "Ask the assistant to answer a post",
		Usage:   "studyhall ai answer <post-id>",
		Description: `Ask the assistant to answer the question in a post.

The answer is also posted to the thread as a comment from the
assistant account, so other readers see it too.`,
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall ai answer <post-id>")
			}
			postID, err := cli.ParseID(args[0], "post ID")
			if err != nil {
				return err
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			answer, err := client.Answer(ctx, postID)
			if err != nil {
				return err
			}
			if !answer.Success {
				fmt.Fprintf(os.Stderr, "assistant unavailable: %s\n", answer.Error)
				return &cli.ExitError{Code: 1}
			}
			fmt.Println(mdterm.Render(answer.Answer, terminalWidth()))
			return nil
		},
	}
}

func summarizeCommand() *cli.Command {
	return &cli.Command{
		Name:    "summarize",
		Summary: "Summarize a post's discussion",
		Usage:   "studyhall ai summarize <post-id>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall ai summarize <post-id>")
			}
			postID, err := cli.ParseID(args[0], "post ID")
			if err != nil {
				return err
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			summary, err := client.Summarize(ctx, postID)
			if err != nil {
				return err
			}
			if !summary.Success {
				fmt.Fprintf(os.Stderr, "assistant unavailable: %s\n", summary.Error)
				return &cli.ExitError{Code: 1}
			}
			fmt.Println(mdterm.Render(summary.Summary, terminalWidth()))
			return nil
		},
	}
}

func moderateCommand() *cli.Command {
	var content string

	return &cli.Command{
		Name:    "moderate",
		Summary: "Check content against the moderation model",
		Description: `Check whether content is appropriate for the forum.

This is advisory: posting does not run it automatically. Exit code is
0 for safe content and 1 for flagged content, so it composes in
scripts.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("moderate", pflag.ContinueOnError)
			flagSet.StringVar(&content, "content", "", "text to check; omit to read stdin")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			text, err := cli.ReadContent(content, "content")
			if err != nil {
				return err
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			verdict, err := client.Moderate(ctx, text)
			if err != nil {
				return err
			}
			if verdict.IsSafe {
				fmt.Printf("safe (confidence %.2f)\n", verdict.Confidence)
				return nil
			}
			fmt.Printf("flagged: %s (confidence %.2f)\n", verdict.Reason, verdict.Confidence)
			return &cli.ExitError{Code: 1}
		},
	}
}

func enhanceCommand() *cli.Command {
	var question string

	return &cli.Command{
		Name:    "enhance",
		Summary: "Improve a draft question",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("enhance", pflag.ContinueOnError)
			flagSet.StringVar(&question, "question", "", "draft question; omit to read stdin")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			draft, err := cli.ReadContent(question, "question")
			if err != nil {
				return err
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			result, err := client.Enhance(ctx, draft)
			if err != nil {
				return err
			}
			if !result.Success {
				fmt.Fprintf(os.Stderr, "assistant unavailable: %s\n", result.Error)
				return &cli.ExitError{Code: 1}
			}

			fmt.Println(mdterm.Render(result.EnhancedQuestion, terminalWidth()))
			if len(result.Improvements) > 0 {
				fmt.Println("\nimprovements:")
				for _, improvement := range result.Improvements {
					fmt.Printf("  - %s\n", improvement)
				}
			}
			return nil
		},
	}
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}
