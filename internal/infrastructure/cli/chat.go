package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/codeshai/internal/app"
)

const (
	msgNoHistory    = "No history recorded yet."
	msgHistoryClear = "History cleared."
	chatPrompt      = "codeshai> "
)

func newChatCommand(container *app.Container, opts Options) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive session; earlier requests are used as context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, container, opts, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runChat(cmd *cobra.Command, container *app.Container, opts Options, flags runFlags) error {
	reader, ok := opts.In.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(opts.In)
	}
	// Prompts and requests share one reader so buffered input is not lost.
	opts.In = reader
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Type a request, or :history, :clear, :quit.")
	for {
		if err := cmd.Context().Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, chatPrompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)

		switch line {
		case "":
		case ":quit", ":exit", ":q":
			return nil
		case ":history":
			RenderHistory(out, container.Pipeline.History(), time.Now())
		case ":clear":
			container.Pipeline.ClearHistory()
			fmt.Fprintln(out, msgHistoryClear)
		default:
			if err := runRequest(cmd, container, opts, flags, line); err != nil && !errors.Is(err, ErrReported) {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			}
		}

		if eof {
			fmt.Fprintln(out)
			return nil
		}
	}
}
