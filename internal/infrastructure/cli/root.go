package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/codeshai/internal/app"
	"github.com/doeshing/codeshai/internal/application/pipeline"
	"github.com/doeshing/codeshai/internal/domain"
)

// ErrReported marks a failure already shown to the user.
var ErrReported = errors.New("error already reported")

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// In replaces stdin for confirmation prompts and chat input.
	In io.Reader
}

// NewRootCmd builds the container and wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return newRootCommand(container, opts), container, nil
}

func newRootCommand(container *app.Container, opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}

	var (
		flags   runFlags
		verbose bool
	)
	root := &cobra.Command{
		Use:   "codeshai [request...]",
		Short: "codeshai - natural language to Python",
		Long:  "codeshai turns a natural-language request into a Python script, screens it and runs it after you confirm.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runRequest(cmd, container, opts, flags, strings.Join(args, " "))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging (same as CODESHAI_DEBUG=1)")
	flags.register(root)

	root.AddCommand(newRunCommand(container, opts))
	root.AddCommand(newChatCommand(container, opts))
	root.AddCommand(newProvidersCommand(container))
	root.AddCommand(newModelsCommand(container))
	root.AddCommand(newFavoritesCommand(container, opts))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newVersionCommand())
	return root
}

type runFlags struct {
	provider string
	model    string
	yes      bool
	preview  bool
	timeout  time.Duration
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "Provider to use (deepseek|openai|claude|groq|ollama)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Override model for this request")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Execute without asking for confirmation")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "Only show the generated code, never execute")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Overall deadline for generation and execution")
}

func (f runFlags) options() (pipeline.GenerateOptions, error) {
	opts := pipeline.GenerateOptions{Model: strings.TrimSpace(f.model)}
	if f.provider != "" {
		p, err := domain.ParseProvider(f.provider)
		if err != nil {
			return opts, err
		}
		opts.Provider = p
	}
	return opts, nil
}

func newRunCommand(container *app.Container, opts Options) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <request...>",
		Short: "Generate Python for a request and run it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, container, opts, flags, strings.Join(args, " "))
		},
	}
	flags.register(cmd)
	return cmd
}

// runRequest drives one generate/confirm/execute cycle and renders it.
func runRequest(cmd *cobra.Command, container *app.Container, opts Options, flags runFlags, request string) error {
	genOpts, err := flags.options()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	provider := container.Pipeline.ResolveProvider(genOpts.Provider)

	spinner := NewSpinner(errOut)
	spinner.Start(fmt.Sprintf("Generating code with %s", provider.DisplayName()))
	defer spinner.Stop()

	sink := NewStreamWriter(out, errOut)
	resp, err := container.Pipeline.Run(ctx, pipeline.RunRequest{
		Request:     request,
		Options:     genOpts,
		PreviewOnly: flags.preview,
		AutoConfirm: flags.yes || !container.Config.ShouldConfirmBeforeExecution(),
		Sink:        sink,
		OnGenerated: func(pending domain.PendingRun) {
			spinner.Stop()
			RenderPending(out, pending)
		},
	}, NewPrompter(opts.In, out).RequireValidation(container.Config.ShouldRequireValidation()))
	spinner.Stop()
	if err != nil {
		fmt.Fprintln(errOut, domain.Describe(err))
		return ErrReported
	}

	if !resp.Executed {
		if !flags.preview {
			fmt.Fprintln(out, "Cancelled.")
		}
		return nil
	}
	RenderResult(out, resp.Result, sink.Lines() > 0)
	if !resp.Result.Outcome.Succeeded() {
		return ErrReported
	}
	return nil
}
