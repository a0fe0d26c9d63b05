// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package message implements the msg command group: listing
// conversations, the interactive chat view, starting conversations,
// and the unread badge count.
package message

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	"github.com/studyhall-dev/studyhall/lib/chatui"
)

// Command returns the msg command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "msg",
		Summary: "Direct messages",
		Subcommands: []*cli.Command{
			listCommand(),
			chatCommand(),
			startCommand(),
			unreadCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List conversations",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			conversations, err := client.Conversations(ctx)
			if err != nil {
				return err
			}
			if len(conversations) == 0 {
				fmt.Fprintln(os.Stderr, "no conversations")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWITH\tUNREAD\tUPDATED")
			for _, conversation := range conversations {
				name := conversation.Name
				if conversation.OtherUser != nil {
					name = conversation.OtherUser.Name
				}
				unread := ""
				if conversation.UnreadCount > 0 {
					unread = fmt.Sprintf("%d", conversation.UnreadCount)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					conversation.ID, name, unread, conversation.UpdatedAt)
			}
			return tw.Flush()
		},
	}
}

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:    "chat",
		Summary: "Open the interactive chat view",
		Usage:   "studyhall msg chat <conversation-id>",
		Description: `Open a conversation in the interactive chat view.

The view refreshes every few seconds while open and immediately after
you send a message. Enter sends, escape quits.`,
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall msg chat <conversation-id>")
			}
			conversationID, err := cli.ParseID(args[0], "conversation ID")
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

			var selfID int64
			if user, ok := cli.CurrentUser(sessions); ok {
				selfID = user.ID
			}

			// Resolve the counterpart's name for the header.
			title := fmt.Sprintf("conversation %d", conversationID)
			if conversations, err := client.Conversations(ctx); err == nil {
				for _, conversation := range conversations {
					if conversation.ID != conversationID {
						continue
					}
					if conversation.OtherUser != nil {
						title = conversation.OtherUser.Name
					} else if conversation.Name != "" {
						title = conversation.Name
					}
				}
			}

			return chatui.Run(ctx, chatui.Config{
				Client:         client,
				ConversationID: conversationID,
				SelfID:         selfID,
				Title:          title,
				Logger:         logger,
			})
		},
	}
}

func startCommand() *cli.Command {
	return &cli.Command{
		Name:    "start",
		Summary: "Start (or reopen) a conversation with a user",
		Usage:   "studyhall msg start <user-id>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall msg start <user-id>")
			}
			userID, err := cli.ParseID(args[0], "user ID")
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

			conversationID, err := client.StartConversation(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Printf("conversation %d — open it with 'studyhall msg chat %d'\n", conversationID, conversationID)
			return nil
		},
	}
}

func unreadCommand() *cli.Command {
	return &cli.Command{
		Name:    "unread",
		Summary: "Print the unread message count",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			count, err := client.UnreadCount(ctx)
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		},
	}
}
