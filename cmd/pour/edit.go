package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/cli"
	"github.com/Veraticus/pour-decisions/internal/pricing"
	"github.com/Veraticus/pour-decisions/internal/tui"
	"github.com/Veraticus/pour-decisions/internal/tui/themes"
)

func editCmd() *cobra.Command {
	var mono bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the stored wine list interactively",
		Long: `Open the stored wine list in an editable grid. Prices are recomputed
after every change; press s to save and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx, viper.GetViper())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Row warnings would scribble over the alternate screen.
			engine, err := newEngine(viper.GetViper(), pricing.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			if err != nil {
				return err
			}

			theme := themes.Default
			if mono {
				theme = themes.Mono
			}

			_, err = tui.Run(ctx,
				tui.WithStore(store),
				tui.WithEngine(engine),
				tui.WithTheme(theme),
			)
			if errors.Is(err, tui.ErrUnsaved) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Quit without saving; stored list unchanged"))
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&mono, "mono", false, "use a colorless theme")

	return cmd
}
