// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the login, logout, register, and whoami
// commands.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	"github.com/studyhall-dev/studyhall/forum"
)

// LoginCommand signs in and persists the session.
func LoginCommand() *cli.Command {
	var email string
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and save the session",
		Description: `Sign in with your email and password.

The returned token is saved locally and attached to every later
command until you log out or the session expires.`,
		Examples: []cli.Example{
			{Description: "Interactive password prompt", Command: "studyhall login --email priya@campus.edu"},
			{Description: "Non-interactive (scripts)", Command: "studyhall login --email priya@campus.edu --password-file ~/.studyhall-pw"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&email, "email", "", "account email address")
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			password, err := cli.ReadPassword(passwordFile)
			if err != nil {
				return err
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			auth, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", auth.User.Username, auth.User.Name)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", sessions.Path())
			return nil
		},
	}
}

// LogoutCommand discards the stored session.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the stored session",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			client, _, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			if err := client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}

// RegisterCommand creates a new account and signs in.
func RegisterCommand() *cli.Command {
	var username, email, name, branch, year, section, passwordFile string

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account and sign in",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("register", pflag.ContinueOnError)
			flagSet.StringVar(&username, "username", "", "unique username")
			flagSet.StringVar(&email, "email", "", "email address")
			flagSet.StringVar(&name, "name", "", "display name")
			flagSet.StringVar(&branch, "branch", "", "branch of study (optional)")
			flagSet.StringVar(&year, "year", "", "year of study (optional)")
			flagSet.StringVar(&section, "section", "", "class section (optional)")
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if username == "" || email == "" || name == "" {
				return fmt.Errorf("--username, --email, and --name are required")
			}
			password, err := cli.ReadPassword(passwordFile)
			if err != nil {
				return err
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			auth, err := client.Register(ctx, forum.RegisterRequest{
				Username: username,
				Name:     name,
				Email:    email,
				Password: password,
				Branch:   branch,
				Year:     year,
				Section:  section,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Registered and logged in as %s\n", auth.User.Username)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", sessions.Path())
			return nil
		},
	}
}

// WhoAmICommand verifies the session against the server.
func WhoAmICommand() *cli.Command {
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the signed-in account",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			client, sessions, cfg, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			user, err := client.Me(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", user.Username, user.Name)
			if user.Email != "" {
				fmt.Printf("  email: %s\n", user.Email)
			}
			if user.Branch != "" {
				fmt.Printf("  branch: %s, year %s\n", user.Branch, user.Year)
			}
			fmt.Printf("  reputation: %d\n", user.ReputationPoints)
			fmt.Printf("  server: %s\n", cfg.ServerURL)
			return nil
		},
	}
}
