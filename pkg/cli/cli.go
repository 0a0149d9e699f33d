package cli

import (
	"context"

	"github.com/kaiwa-dev/kaiwa/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "kaiwa",
		Usage: "Topic-based chat client with follow-up suggestions",
		Commands: []*cli.Command{
			chatCommand(),
			topicCommand(),
			exportCommand(),
			speakCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
