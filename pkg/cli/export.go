package cli

import (
	"context"
	"fmt"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/usecase/transcript"
	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var (
		cfg     config
		topicID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic-id",
			Aliases:     []string{"i"},
			Usage:       "Topic ID to export",
			Sources:     cli.EnvVars("KAIWA_TOPIC_ID"),
			Destination: &topicID,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, storageFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Archive a topic transcript to Cloud Storage",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			store, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			key, err := transcript.Export(ctx, repo, store, model.TopicID(topicID))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Exported transcript to gs://%s/%s\n", cfg.bucket, key)
			return nil
		},
	}
}
