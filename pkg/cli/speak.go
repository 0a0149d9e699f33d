package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func speakCommand() *cli.Command {
	var (
		cfg      config
		text     string
		language string
		output   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Text to synthesize",
			Destination: &text,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "language",
			Aliases:     []string{"l"},
			Usage:       "Language code for synthesis",
			Value:       "en",
			Destination: &language,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "File to write the audio bytes to",
			Value:       "kaiwa.mp3",
			Destination: &output,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, ttsFlags(&cfg)...)

	return &cli.Command{
		Name:  "speak",
		Usage: "Send text to the text-to-speech service and save the audio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}

			tts, err := cfg.newTTS()
			if err != nil {
				return err
			}

			audio, err := tts.Synthesize(ctx, text, language)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, audio, 0o644); err != nil {
				return goerr.Wrap(err, "failed to write audio file", goerr.V("path", output))
			}

			fmt.Fprintf(c.Root().Writer, "Wrote %d bytes to %s\n", len(audio), output)
			return nil
		},
	}
}
