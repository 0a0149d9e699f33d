package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/usecase/chat"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg       config
		topicName string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic",
			Aliases:     []string{"t"},
			Usage:       "Topic name to chat in (created if it does not exist)",
			Sources:     cli.EnvVars("KAIWA_TOPIC"),
			Destination: &topicName,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat in a topic",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}
			if err := cfg.requireUser(); err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			comp, err := cfg.newCompletion(ctx)
			if err != nil {
				return err
			}

			session := chat.New(chat.NewInput{
				Repo:       repo,
				Completion: comp,
			})
			if err := session.Login(ctx, model.UserID(cfg.user)); err != nil {
				return goerr.Wrap(err, "failed to start session")
			}

			if err := enterTopic(ctx, session, topicName); err != nil {
				return err
			}

			active, _ := session.ActiveTopic()
			fmt.Fprintf(c.Root().Writer, "Chatting in %q. Type 'exit' to quit, 1-3 to pick a suggestion.\n", active.Name)

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open input")
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						break
					}
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" {
					break
				}

				if picked, ok := pickSuggestion(session, line); ok {
					fmt.Fprintf(c.Root().Writer, "> %s\n", picked)
					line = picked
				}

				if err := session.PostUserMessage(ctx, line); err != nil {
					fmt.Fprintf(c.Root().Writer, "Error: %s\n", err)
					continue
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " Thinking…"
				sp.Start()
				reply, err := session.RequestCompletion(ctx)
				sp.Stop()

				if err != nil {
					// The user message is already durable; only the reply failed.
					fmt.Fprintf(c.Root().Writer, "Error: %s\n", err)
					continue
				}
				if reply == nil {
					continue
				}

				fmt.Fprintf(c.Root().Writer, "\n%s\n", reply.Content)
				if set, ok := session.ActiveSuggestions(); ok && len(set.Questions) > 0 {
					fmt.Fprintf(c.Root().Writer, "\n")
					for i, q := range set.Questions {
						fmt.Fprintf(c.Root().Writer, "  %d. %s\n", i+1, q)
					}
				}
				fmt.Fprintf(c.Root().Writer, "\n")
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}

// enterTopic activates the named topic, creating it when absent. With
// no name given, the session keeps the first existing topic; a user
// with no topics gets a default one.
func enterTopic(ctx context.Context, session *chat.Session, name string) error {
	if name == "" {
		if _, ok := session.ActiveTopic(); ok {
			return nil
		}
		_, err := session.CreateTopic(ctx, "General")
		return err
	}

	for i, t := range session.Topics() {
		if t.Name == name {
			return session.SelectTopic(ctx, i)
		}
	}

	_, err := session.CreateTopic(ctx, name)
	return err
}

// pickSuggestion maps an input of "1".."3" to the corresponding active
// follow-up question, if one is attached.
func pickSuggestion(session *chat.Session, line string) (string, bool) {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > model.MaxSuggestions {
		return "", false
	}

	set, ok := session.ActiveSuggestions()
	if !ok || n > len(set.Questions) {
		return "", false
	}
	return set.Questions[n-1], true
}
