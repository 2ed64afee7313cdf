package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/pour-decisions/internal/sheets"
)

// Sheets keys under the "sheets" section of the config file.
const (
	KeySheetsServiceAccountPath = "sheets.service_account_path"
	KeySheetsClientID           = "sheets.client_id"
	KeySheetsClientSecret       = "sheets.client_secret"
	KeySheetsRefreshToken       = "sheets.refresh_token"
	KeySheetsTokenFile          = "sheets.token_file"
	KeySheetsSpreadsheetID      = "sheets.spreadsheet_id"
	KeySheetsSpreadsheetName    = "sheets.spreadsheet_name"
	KeySheetsSheetTitle         = "sheets.sheet_title"
	KeySheetsBatchSize          = "sheets.batch_size"
	KeySheetsFormatting         = "sheets.formatting"
)

// LoadSheetsConfig loads Google Sheets configuration from viper and the
// environment. It follows this precedence:
// 1. viper (config file or POUR_SHEETS_* env vars)
// 2. direct environment variables (GOOGLE_SHEETS_*)
// 3. a refresh token saved by `pour auth sheets`
// 4. default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = firstNonEmpty(v.GetString(KeySheetsServiceAccountPath), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	if config.ServiceAccountPath != "" {
		config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	}
	config.ClientID = firstNonEmpty(v.GetString(KeySheetsClientID), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstNonEmpty(v.GetString(KeySheetsClientSecret), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.RefreshToken = firstNonEmpty(v.GetString(KeySheetsRefreshToken), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	config.SpreadsheetID = firstNonEmpty(v.GetString(KeySheetsSpreadsheetID), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	config.SpreadsheetName = firstNonEmpty(v.GetString(KeySheetsSpreadsheetName), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), config.SpreadsheetName)
	config.SheetTitle = firstNonEmpty(v.GetString(KeySheetsSheetTitle), config.SheetTitle)

	if v.IsSet(KeySheetsBatchSize) {
		config.BatchSize = v.GetInt(KeySheetsBatchSize)
	}
	if v.IsSet(KeySheetsFormatting) {
		config.EnableFormatting = v.GetBool(KeySheetsFormatting)
	}

	if config.RefreshToken == "" && config.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(SheetsTokenFile(v)); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SheetsTokenFile returns where the OAuth2 token is cached.
func SheetsTokenFile(v *viper.Viper) string {
	if path := v.GetString(KeySheetsTokenFile); path != "" {
		return ExpandPath(path)
	}
	return sheets.DefaultTokenFile()
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
