package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/cli"
	"github.com/Veraticus/pour-decisions/internal/common"
	"github.com/Veraticus/pour-decisions/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective pricing rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.OutOrStdout(), viper.GetViper())
		},
	})

	return cmd
}

func showConfig(out io.Writer, v *viper.Viper) error {
	cfg, err := config.LoadPricingConfig(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return common.NewUserError("Pricing configuration is invalid", err)
	}

	source := v.ConfigFileUsed()
	if source == "" {
		source = "defaults (no config file found)"
	}
	sources := fmt.Sprintf("Config: %s\n%s Database: %s", source, cli.FolderIcon, config.DatabasePath(v))
	if _, err := fmt.Fprintln(out, cli.RenderBox(cli.WineIcon+" Pricing rules", sources)); err != nil {
		return err
	}

	return cli.RenderConfig(out, cfg)
}
