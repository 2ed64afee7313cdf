package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/config"
	"github.com/Veraticus/pour-decisions/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google sign-in URL and wait for the redirect
2. Save the token next to your config
3. Store the refresh token in your config file

Run it once before 'pour price --sheets'. A saved token is reused and refreshed
when possible; pass --force to sign in again. A service account configured with
sheets.service_account_path needs no interactive login.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().Bool("force", false, "Ignore any saved token and sign in again")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	v := viper.GetViper()

	clientID := v.GetString(config.KeySheetsClientID)
	clientSecret := v.GetString(config.KeySheetsClientSecret)

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	tokenFile := config.SheetsTokenFile(v)
	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	oauthCfg := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
	}

	authenticate := sheets.GetOrCreateToken
	if force, _ := cmd.Flags().GetBool("force"); force {
		authenticate = sheets.AuthenticateOAuth2Interactive
	}

	token, err := authenticate(ctx, oauthCfg)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	v.Set(config.KeySheetsClientID, clientID)
	v.Set(config.KeySheetsClientSecret, clientSecret)
	v.Set(config.KeySheetsRefreshToken, token.RefreshToken)

	if err := saveConfig(v); err != nil {
		slog.Warn("Could not save refresh token to config file", "error", err)
		slog.Info("The token file will still be used. To pin it in config, add:")
		slog.Info(fmt.Sprintf("sheets:\n  refresh_token: %q", token.RefreshToken))
	} else {
		slog.Info("✅ Authentication successful!")
	}

	slog.Info("📊 Google Sheets is ready. Run 'pour price --sheets' to export.")
	return nil
}

func saveConfig(v *viper.Viper) error {
	configFile := v.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "pour", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o750); err != nil {
		return err
	}

	return v.WriteConfigAs(configFile)
}
