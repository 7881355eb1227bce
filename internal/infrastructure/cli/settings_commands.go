package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/codeshai/internal/app"
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/infrastructure/settings"
)

const (
	msgNoFavorites = "No favorites saved yet."
	msgNoModels    = "No models available."
)

// ============================================================================
// Providers
// ============================================================================

func newProvidersCommand(container *app.Container) *cobra.Command {
	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Manage text-generation providers",
	}

	providersCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List providers and their connection state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				listProviders(cmd.OutOrStdout(), container)
				return nil
			},
		},
		&cobra.Command{
			Use:   "use <provider>",
			Short: "Select the provider used by default",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := domain.ParseProvider(args[0])
				if err != nil {
					return err
				}
				if err := container.Settings.SetSelectedProvider(p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Using %s\n", p.DisplayName())
				if !container.Gateway.IsConnected(p) {
					fmt.Fprintf(cmd.OutOrStdout(), "No API key yet. Get one at %s and run `codeshai providers set-key %s <key>`.\n", p.CredentialURL(), p)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-key <provider> <key>",
			Short: "Store an API key (an empty key removes it)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := domain.ParseProvider(args[0])
				if err != nil {
					return err
				}
				if !p.RequiresCredential() {
					return fmt.Errorf("%s does not use an API key", p.DisplayName())
				}
				if err := container.Settings.SetCredential(p, args[1]); err != nil {
					return err
				}
				if strings.TrimSpace(args[1]) == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed API key for %s\n", p.DisplayName())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Saved API key for %s\n", p.DisplayName())
				}
				return nil
			},
		},
	)
	return providersCmd
}

func listProviders(out io.Writer, container *app.Container) {
	selected := container.Pipeline.ResolveProvider("")
	for _, p := range domain.AllProviders() {
		marker := " "
		if p == selected {
			marker = "*"
		}
		state := "connected"
		if !container.Gateway.IsConnected(p) {
			state = "no API key"
		}
		if p.IsLocal() {
			state = "local"
		}
		fmt.Fprintf(out, "%s %-9s %-17s %-11s %s\n", marker, p, p.DisplayName(), state, container.Gateway.ResolveModel(p, ""))
	}
}

// ============================================================================
// Models
// ============================================================================

func newModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List and select models",
	}

	modelsCmd.AddCommand(
		&cobra.Command{
			Use:   "list [provider]",
			Short: "List models a provider can serve",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p := container.Pipeline.ResolveProvider("")
				if len(args) == 1 {
					parsed, err := domain.ParseProvider(args[0])
					if err != nil {
						return err
					}
					p = parsed
				}
				listModels(cmd, container, p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "use <provider> <model>",
			Short: "Select the model for a provider",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := domain.ParseProvider(args[0])
				if err != nil {
					return err
				}
				if err := container.Settings.SetSelectedModel(p, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now uses %s\n", p.DisplayName(), container.Gateway.ResolveModel(p, ""))
				return nil
			},
		},
	)
	return modelsCmd
}

func listModels(cmd *cobra.Command, container *app.Container, p domain.Provider) {
	out := cmd.OutOrStdout()
	models := container.Gateway.ListModels(cmd.Context(), p)
	if len(models) == 0 {
		fmt.Fprintln(out, msgNoModels)
		if p.IsLocal() {
			fmt.Fprintln(out, "Is Ollama running? Start it with `ollama serve` and pull a model.")
		}
		return
	}
	current := container.Gateway.ResolveModel(p, "")
	fmt.Fprintf(out, "%s models:\n", p.DisplayName())
	for _, model := range models {
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, model)
	}
}

// ============================================================================
// Favorites
// ============================================================================

func newFavoritesCommand(container *app.Container, opts Options) *cobra.Command {
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "Save and replay frequent requests",
	}

	var flags runFlags
	runCmd := &cobra.Command{
		Use:   "run <number>",
		Short: "Run a saved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := favoriteAt(container, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request: %s\n", request)
			return runRequest(cmd, container, opts, flags, request)
		},
	}
	flags.register(runCmd)

	favoritesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved requests",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listFavorites(cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "add <request...>",
			Short: "Save a request",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				request := strings.Join(args, " ")
				if err := container.Settings.AddFavorite(request); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", strings.TrimSpace(request))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <number|request>",
			Short: "Remove a saved request",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				request := strings.Join(args, " ")
				if len(args) == 1 {
					if fav, err := favoriteAt(container, args[0]); err == nil {
						request = fav
					}
				}
				if err := container.Settings.RemoveFavorite(request); err != nil {
					if errors.Is(err, settings.ErrFavoriteNotFound) {
						return fmt.Errorf("no favorite %q", request)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", request)
				return nil
			},
		},
		runCmd,
	)
	return favoritesCmd
}

func listFavorites(out io.Writer, container *app.Container) error {
	favorites, err := container.Settings.Favorites()
	if err != nil {
		return err
	}
	if len(favorites) == 0 {
		fmt.Fprintln(out, msgNoFavorites)
		return nil
	}
	for i, fav := range favorites {
		fmt.Fprintf(out, "%2d. %s\n", i+1, fav)
	}
	return nil
}

// favoriteAt resolves a 1-based favorite number.
func favoriteAt(container *app.Container, ref string) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return "", fmt.Errorf("favorite number expected, got %q", ref)
	}
	favorites, err := container.Settings.Favorites()
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(favorites) {
		return "", fmt.Errorf("favorite %d does not exist (have %d)", n, len(favorites))
	}
	return favorites[n-1], nil
}
