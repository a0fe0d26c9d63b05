// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile implements the profile command group: viewing and
// editing profiles, and the follow graph.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	"github.com/studyhall-dev/studyhall/forum"
)

// Command returns the profile command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Summary: "Profiles and follows",
		Subcommands: []*cli.Command{
			showCommand(),
			updateCommand(),
			followCommand(),
			unfollowCommand(),
			followersCommand(),
			followingCommand(),
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Show a user's profile",
		Usage:   "studyhall profile show <username>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall profile show <username>")
			}
			username := args[0]

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			profile, err := client.UserProfile(ctx, username)
			if err != nil {
				return err
			}

			name := profile.DisplayName
			if name == "" {
				name = profile.Name
			}
			fmt.Printf("%s (@%s)\n", name, profile.Username)
			if profile.Status != "" {
				fmt.Printf("  %s\n", profile.Status)
			}
			if profile.Bio != "" {
				fmt.Printf("  %s\n", profile.Bio)
			}
			if profile.Branch != "" {
				fmt.Printf("  branch: %s, year %s\n", profile.Branch, profile.Year)
			}
			if profile.Skills != "" {
				fmt.Printf("  skills: %s\n", profile.Skills)
			}
			fmt.Printf("  reputation %d · %d posts · %d followers · %d following\n",
				profile.ReputationPoints, profile.PostsCount,
				profile.FollowersCount, profile.FollowingCount)

			// When signed in, show the relationship too.
			if sessions.Token() != "" {
				if following, err := client.IsFollowing(ctx, username); err == nil && following {
					fmt.Println("  you follow this user")
				}
			}
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	var update forum.ProfileUpdate

	return &cli.Command{
		Name:    "update",
		Summary: "Update your profile",
		Description: `Update your profile. Only the flags you pass change; everything
else keeps its current value.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("update", pflag.ContinueOnError)
			flagSet.StringVar(&update.DisplayName, "display-name", "", "display name")
			flagSet.StringVar(&update.Bio, "bio", "", "short bio")
			flagSet.StringVar(&update.Status, "status", "", "status line")
			flagSet.StringVar(&update.Branch, "branch", "", "branch of study")
			flagSet.StringVar(&update.Year, "year", "", "year of study")
			flagSet.StringVar(&update.Section, "section", "", "class section")
			flagSet.StringVar(&update.Skills, "skills", "", "comma-separated skills")
			flagSet.StringVar(&update.LinkedInURL, "linkedin", "", "LinkedIn URL")
			flagSet.StringVar(&update.GitHubURL, "github", "", "GitHub URL")
			flagSet.StringVar(&update.AvatarURL, "avatar", "", "avatar image URL")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if update == (forum.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update: pass at least one flag")
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			if err := client.UpdateUserProfile(ctx, update); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "profile updated")
			return nil
		},
	}
}

func followCommand() *cli.Command {
	return &cli.Command{
		Name:    "follow",
		Summary: "Follow a user",
		Usage:   "studyhall profile follow <username>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall profile follow <username>")
			}
			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			if err := client.Follow(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("following %s\n", args[0])
			return nil
		},
	}
}

func unfollowCommand() *cli.Command {
	return &cli.Command{
		Name:    "unfollow",
		Summary: "Unfollow a user",
		Usage:   "studyhall profile unfollow <username>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall profile unfollow <username>")
			}
			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			if err := client.Unfollow(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("unfollowed %s\n", args[0])
			return nil
		},
	}
}

func followersCommand() *cli.Command {
	return &cli.Command{
		Name:    "followers",
		Summary: "List a user's followers",
		Usage:   "studyhall profile followers <username>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runUserList(ctx, args, logger, "followers", func(ctx context.Context, client *forum.Client, username string) ([]forum.UserSummary, error) {
				return client.Followers(ctx, username)
			})
		},
	}
}

func followingCommand() *cli.Command {
	return &cli.Command{
		Name:    "following",
		Summary: "List who a user follows",
		Usage:   "studyhall profile following <username>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runUserList(ctx, args, logger, "following", func(ctx context.Context, client *forum.Client, username string) ([]forum.UserSummary, error) {
				return client.Following(ctx, username)
			})
		},
	}
}

func runUserList(ctx context.Context, args []string, logger *slog.Logger, what string,
	fetch func(context.Context, *forum.Client, string) ([]forum.UserSummary, error)) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: studyhall profile %s <username>", what)
	}
	client, _, _, err := cli.Connect(logger)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	users, err := fetch(ctx, client, args[0])
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintf(os.Stderr, "no %s\n", what)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME")
	for _, user := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", user.ID, user.Username, user.Name)
	}
	return tw.Flush()
}
