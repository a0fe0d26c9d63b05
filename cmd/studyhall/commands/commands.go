// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete studyhall CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	aicmd "github.com/studyhall-dev/studyhall/cmd/studyhall/ai"
	authcmd "github.com/studyhall-dev/studyhall/cmd/studyhall/auth"
	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	messagecmd "github.com/studyhall-dev/studyhall/cmd/studyhall/message"
	postcmd "github.com/studyhall-dev/studyhall/cmd/studyhall/post"
	profilecmd "github.com/studyhall-dev/studyhall/cmd/studyhall/profile"
	"github.com/studyhall-dev/studyhall/lib/version"
)

// Root builds and returns the complete studyhall command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "studyhall",
		Description: `StudyHall: a student discussion forum from the terminal.

Browse and write posts, exchange direct messages, follow classmates,
and lean on the assistant for answers and summaries.`,
		Subcommands: []*cli.Command{
			authcmd.LoginCommand(),
			authcmd.LogoutCommand(),
			authcmd.RegisterCommand(),
			authcmd.WhoAmICommand(),
			postcmd.Command(),
			messagecmd.Command(),
			profilecmd.Command(),
			aicmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("studyhall %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
