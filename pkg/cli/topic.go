package cli

import (
	"context"
	"fmt"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/usecase/chat"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func topicCommand() *cli.Command {
	return &cli.Command{
		Name:  "topic",
		Usage: "Manage conversation topics",
		Commands: []*cli.Command{
			topicNewCommand(),
			topicListCommand(),
			topicRenameCommand(),
			topicRmCommand(),
		},
	}
}

// newSession builds a logged-in session for topic management commands
func newSession(ctx context.Context, cfg *config) (*chat.Session, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	session := chat.New(chat.NewInput{Repo: repo})
	if err := session.Login(ctx, model.UserID(cfg.user)); err != nil {
		return nil, goerr.Wrap(err, "failed to start session")
	}
	return session, nil
}

func topicNewCommand() *cli.Command {
	var (
		cfg  config
		name string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Name of the new topic",
			Destination: &name,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "new",
		Usage: "Create a new topic",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}
			if err := cfg.requireUser(); err != nil {
				return err
			}

			session, err := newSession(ctx, &cfg)
			if err != nil {
				return err
			}

			topic, err := session.CreateTopic(ctx, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Created topic %s (%s)\n", topic.Name, topic.ID)
			return nil
		},
	}
}

func topicListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List topics",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}
			if err := cfg.requireUser(); err != nil {
				return err
			}

			session, err := newSession(ctx, &cfg)
			if err != nil {
				return err
			}

			topics := session.Topics()
			if len(topics) == 0 {
				fmt.Fprintf(c.Root().Writer, "No topics found for user %s\n", cfg.user)
				return nil
			}

			for i, t := range topics {
				fmt.Fprintf(c.Root().Writer, "%d\t%s\t%s\t%s\n",
					i,
					t.ID,
					t.Name,
					t.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			return nil
		},
	}
}

func topicRenameCommand() *cli.Command {
	var (
		cfg     config
		topicID string
		name    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic-id",
			Aliases:     []string{"i"},
			Usage:       "Topic ID to rename",
			Destination: &topicID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "New topic name",
			Destination: &name,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "rename",
		Usage: "Rename a topic",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}
			if err := cfg.requireUser(); err != nil {
				return err
			}

			session, err := newSession(ctx, &cfg)
			if err != nil {
				return err
			}

			if err := session.RenameTopic(ctx, model.TopicID(topicID), name); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Renamed topic %s to %q\n", topicID, name)
			return nil
		},
	}
}

func topicRmCommand() *cli.Command {
	var (
		cfg     config
		topicID string
		force   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic-id",
			Aliases:     []string{"i"},
			Usage:       "Topic ID to delete",
			Destination: &topicID,
			Required:    true,
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "Delete without confirmation",
			Destination: &force,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "rm",
		Usage: "Delete a topic and all its messages",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}
			if err := cfg.requireUser(); err != nil {
				return err
			}
			if !force {
				return goerr.New("deleting a topic removes all its messages; pass --force to confirm")
			}

			session, err := newSession(ctx, &cfg)
			if err != nil {
				return err
			}

			if err := session.DeleteTopic(ctx, model.TopicID(topicID)); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Deleted topic %s\n", topicID)
			return nil
		},
	}
}
