package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/cli"
	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/storage"
	"github.com/Veraticus/pour-decisions/internal/wines"
)

func winesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wines",
		Aliases: []string{"wine"},
		Short:   "Manage the stored wine list",
		Long: `Manage the wine list that 'pour price' and 'pour edit' use when no
--input file is given. Only the inputs are stored; prices are always
recomputed from the current configuration.`,
	}

	cmd.AddCommand(winesListCmd())
	cmd.AddCommand(winesAddCmd())
	cmd.AddCommand(winesRemoveCmd())
	cmd.AddCommand(winesImportCmd())
	cmd.AddCommand(winesExportCmd())

	return cmd
}

func winesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored wines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx, viper.GetViper())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return listWines(ctx, cmd.OutOrStdout(), store)
		},
	}
}

func listWines(ctx context.Context, out io.Writer, store storage.WineStore) error {
	rows, err := store.ListWines(ctx)
	if err != nil {
		return fmt.Errorf("failed to list wines: %w", err)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No wines stored yet. Add one with 'pour wines add' or 'pour wines import'."))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"Wine", "Color", "Retail", "Force Premium"}
	styled := make([]string, len(header))
	for i, h := range header {
		styled[i] = cli.TableHeaderStyle.Render(h)
	}
	if _, err := fmt.Fprintln(w, strings.Join(styled, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		force := ""
		if row.ForcePremium {
			force = "yes"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t$%s\t%s\n", row.Name, row.Color, row.RetailPrice.StringFixed(2), force); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	noun := "wines"
	if len(rows) == 1 {
		noun = "wine"
	}
	_, err = fmt.Fprintf(out, "\n%s %d %s\n", cli.WineIcon, len(rows), noun)
	return err
}

func winesAddCmd() *cobra.Command {
	var (
		price        string
		color        string
		forcePremium bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or update a wine",
		Long: `Add a wine to the stored list. A wine with the same name (ignoring
case) is updated in place and keeps its position.`,
		Example: `  pour wines add "Chianti Classico" --price 25 --color red
  pour wines add "Vintage Port" --price 48 --color other --force-premium`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx, viper.GetViper())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return addWine(ctx, cmd.OutOrStdout(), store, args[0], price, color, forcePremium)
		},
	}

	cmd.Flags().StringVarP(&price, "price", "p", "", "retail price (required)")
	cmd.Flags().StringVarP(&color, "color", "c", "", "red, white, sparkling, rosé or other")
	cmd.Flags().BoolVar(&forcePremium, "force-premium", false, "always price as premium")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func addWine(ctx context.Context, out io.Writer, store storage.WineStore, name, price, color string, forcePremium bool) error {
	row, err := wines.ParseRow(-1, name, color, price, "")
	if err != nil {
		return common.NewUserError("Invalid wine", err)
	}
	row.ForcePremium = forcePremium

	if err := store.SaveWine(ctx, row); err != nil {
		return fmt.Errorf("failed to save %s: %w", row.Name, err)
	}

	slog.Debug("Saved wine", "name", row.Name, "color", row.Color, "retail", row.RetailPrice)
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %s (%s, $%s)", row.Name, row.Color, row.RetailPrice.StringFixed(2))))
	return err
}

func winesRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a wine",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx, viper.GetViper())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := reader.Confirm(ctx, cmd.OutOrStdout(), fmt.Sprintf("Remove %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Kept it.")
					return nil
				}
			}

			return removeWine(ctx, cmd.OutOrStdout(), store, args[0])
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func removeWine(ctx context.Context, out io.Writer, store storage.WineStore, name string) error {
	if err := store.DeleteWine(ctx, name); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(fmt.Sprintf("No wine named %q", name), err)
		}
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	_, err := fmt.Fprintln(out, cli.FormatSuccess("Removed "+name))
	return err
}

func winesImportCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import wines from a CSV file",
		Long: `Import wines from a CSV with Name, Color, RetailPrice and ForcePremium
columns. Existing wines with the same name are updated. With --replace the
stored list is swapped for the file's contents in one step.

Rows that fail to parse are reported and left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			result, err := readWineFile(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, viper.GetViper())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return importWines(ctx, cmd.OutOrStdout(), store, result, replace)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the stored list instead of merging")

	return cmd
}

func importWines(ctx context.Context, out io.Writer, store storage.WineStore, result wines.ParseResult, replace bool) error {
	if err := cli.RenderFailures(out, result.Failures); err != nil {
		return err
	}
	if len(result.Rows) == 0 {
		return common.NewUserError("No valid wines in the file", common.ErrNoWines)
	}

	if replace {
		if err := store.ReplaceWines(ctx, result.Rows); err != nil {
			return fmt.Errorf("failed to replace wine list: %w", err)
		}
	} else {
		for _, row := range result.Rows {
			if err := store.SaveWine(ctx, row); err != nil {
				return fmt.Errorf("failed to save %s: %w", row.Name, err)
			}
		}
	}

	msg := fmt.Sprintf("Imported %d wines", len(result.Rows))
	if result.Skipped > 0 {
		msg += fmt.Sprintf(" (%d blank rows skipped)", result.Skipped)
	}
	_, err := fmt.Fprintln(out, cli.FormatSuccess(msg))
	return err
}

func winesExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored wine list as CSV",
		Long:  `Write the stored inputs as CSV in the same layout 'pour wines import' reads.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := storedWines(cmd.Context(), viper.GetViper())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return wines.WriteInputCSV(cmd.OutOrStdout(), rows)
			}
			if err := wines.WriteInputFile(appFs, output, rows); err != nil {
				return common.NewUserError(fmt.Sprintf("Cannot write %s", output), err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d wines to %s", len(rows), output)))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")

	return cmd
}
