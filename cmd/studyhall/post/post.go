// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package post implements the post command group: browsing, creating,
// editing, voting on, and commenting on forum posts.
package post

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/studyhall-dev/studyhall/cmd/studyhall/cli"
	"github.com/studyhall-dev/studyhall/forum"
	"github.com/studyhall-dev/studyhall/lib/mdterm"
)

// Command returns the post command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "post",
		Summary: "Browse and write forum posts",
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			createCommand(),
			editCommand(),
			deleteCommand(),
			voteCommand(),
			commentCommand(),
		},
	}
}

func listCommand() *cli.Command {
	var search, subject, sort string

	return &cli.Command{
		Name:    "list",
		Summary: "List posts",
		Examples: []cli.Example{
			{Description: "Top-voted algorithms posts", Command: "studyhall post list --subject Algorithms --sort top"},
			{Description: "Search titles and content", Command: "studyhall post list --search 'master theorem'"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&search, "search", "", "search in titles and content")
			flagSet.StringVar(&subject, "subject", "", "filter by subject")
			flagSet.StringVar(&sort, "sort", "", "sort order: latest, top, or discussed")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			client, _, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			list, err := client.Posts(ctx, forum.ListPostsOptions{
				Search:  search,
				Subject: subject,
				Sort:    sort,
			})
			if err != nil {
				return err
			}
			if len(list.Posts) == 0 {
				fmt.Fprintln(os.Stderr, "no posts found")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tCOMMENTS\tSUBJECT\tTITLE\tAUTHOR")
			for _, post := range list.Posts {
				author := ""
				if post.Author != nil {
					author = post.Author.Name
				}
				fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n",
					post.ID, post.Score, post.CommentCount, post.Subject,
					ansi.Truncate(post.Title, 60, "…"), author)
			}
			return tw.Flush()
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Show a post with its comments",
		Usage:   "studyhall post show <post-id>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall post show <post-id>")
			}
			postID, err := cli.ParseID(args[0], "post ID")
			if err != nil {
				return err
			}

			client, _, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			detail, err := client.Post(ctx, postID)
			if err != nil {
				return err
			}

			width := terminalWidth()
			post := detail.Post
			fmt.Printf("#%d [%s] %s\n", post.ID, post.Subject, post.Title)
			if post.Author != nil {
				fmt.Printf("by %s", post.Author.Name)
				if post.Timestamp != "" {
					fmt.Printf(" at %s", post.Timestamp)
				}
				fmt.Println()
			}
			fmt.Printf("score %d (+%d/-%d), %d views\n\n", post.Score, post.Upvotes, post.Downvotes, post.ViewCount)
			fmt.Println(mdterm.Render(post.Content, width))

			if len(detail.Comments) > 0 {
				fmt.Printf("\n── %d comment(s) ──\n", countComments(detail.Comments))
				printComments(detail.Comments, 0, width)
			}
			return nil
		},
	}
}

func createCommand() *cli.Command {
	var title, subject, content string

	return &cli.Command{
		Name:    "create",
		Summary: "Publish a new post",
		Examples: []cli.Example{
			{Description: "Body from a file", Command: "studyhall post create --title 'Heap question' --subject Algorithms < question.md"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.StringVar(&title, "title", "", "post title")
			flagSet.StringVar(&subject, "subject", "", "post subject")
			flagSet.StringVar(&content, "content", "", "post body (markdown); omit to read stdin")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if title == "" || subject == "" {
				return fmt.Errorf("--title and --subject are required")
			}
			body, err := cli.ReadContent(content, "content")
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

			created, err := client.CreatePost(ctx, forum.PostInput{
				Title:   title,
				Content: body,
				Subject: subject,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created post %d\n", created.ID)
			return nil
		},
	}
}

func editCommand() *cli.Command {
	var title, subject, content string

	return &cli.Command{
		Name:    "edit",
		Summary: "Replace a post's title, body, and subject",
		Usage:   "studyhall post edit <post-id> --title ... --subject ... [--content ...]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("edit", pflag.ContinueOnError)
			flagSet.StringVar(&title, "title", "", "new title")
			flagSet.StringVar(&subject, "subject", "", "new subject")
			flagSet.StringVar(&content, "content", "", "new body; omit to read stdin")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall post edit <post-id> [flags]")
			}
			postID, err := cli.ParseID(args[0], "post ID")
			if err != nil {
				return err
			}
			if title == "" || subject == "" {
				return fmt.Errorf("--title and --subject are required (the server replaces the whole post)")
			}
			body, err := cli.ReadContent(content, "content")
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

			if err := client.UpdatePost(ctx, postID, forum.PostInput{
				Title:   title,
				Content: body,
				Subject: subject,
			}); err != nil {
				return err
			}
			fmt.Printf("updated post %d\n", postID)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a post",
		Usage:   "studyhall post delete <post-id>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall post delete <post-id>")
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

			if err := client.DeletePost(ctx, postID); err != nil {
				return err
			}
			fmt.Printf("deleted post %d\n", postID)
			return nil
		},
	}
}

func voteCommand() *cli.Command {
	return &cli.Command{
		Name:    "vote",
		Summary: "Vote a post up or down",
		Usage:   "studyhall post vote <post-id> up|down",
		Description: `Vote a post up or down.

Repeating your current vote removes it; voting the other way switches
it. The updated tally is printed.`,
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: studyhall post vote <post-id> up|down")
			}
			postID, err := cli.ParseID(args[0], "post ID")
			if err != nil {
				return err
			}
			var direction int
			switch args[1] {
			case "up":
				direction = forum.VoteUp
			case "down":
				direction = forum.VoteDown
			default:
				return fmt.Errorf("vote direction must be \"up\" or \"down\", got %q", args[1])
			}

			client, sessions, _, err := cli.Connect(logger)
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()
			if err := cli.RequireSession(sessions); err != nil {
				return err
			}

			result, err := client.Vote(ctx, postID, direction)
			if err != nil {
				return err
			}
			fmt.Printf("score %d (+%d/-%d)\n", result.Score, result.Upvotes, result.Downvotes)
			return nil
		},
	}
}

func commentCommand() *cli.Command {
	var content string
	var replyTo int64

	return &cli.Command{
		Name:    "comment",
		Summary: "Comment on a post",
		Usage:   "studyhall post comment <post-id> [--reply-to comment-id]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("comment", pflag.ContinueOnError)
			flagSet.StringVar(&content, "content", "", "comment text; omit to read stdin")
			flagSet.Int64Var(&replyTo, "reply-to", 0, "comment ID to reply to (default: top-level)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: studyhall post comment <post-id> [flags]")
			}
			postID, err := cli.ParseID(args[0], "post ID")
			if err != nil {
				return err
			}
			body, err := cli.ReadContent(content, "content")
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

			comment, err := client.CreateComment(ctx, postID, body, replyTo)
			if err != nil {
				return err
			}
			fmt.Printf("comment %d added to post %d\n", comment.ID, postID)
			return nil
		},
	}
}

// printComments renders a comment tree with two-space indentation per
// reply level.
func printComments(comments []forum.Comment, depth, width int) {
	indent := strings.Repeat("  ", depth)
	contentWidth := width - len(indent)
	if contentWidth < 20 {
		contentWidth = 20
	}
	for _, comment := range comments {
		author := ""
		if comment.Author != nil {
			author = comment.Author.Name
		}
		fmt.Printf("\n%s%s", indent, author)
		if comment.Timestamp != "" {
			fmt.Printf(" at %s", comment.Timestamp)
		}
		fmt.Printf(" (#%d)\n", comment.ID)
		for _, line := range strings.Split(ansi.Wrap(comment.Content, contentWidth, " ,.;-"), "\n") {
			fmt.Printf("%s%s\n", indent, line)
		}
		printComments(comment.Replies, depth+1, width)
	}
}

func countComments(comments []forum.Comment) int {
	total := 0
	for _, comment := range comments {
		total += 1 + countComments(comment.Replies)
	}
	return total
}

// terminalWidth returns the stdout width, or 80 when stdout is not a
// terminal.
func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}
