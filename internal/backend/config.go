package backend

import (
	"fmt"

	"github.com/James-hg/MountMadness2026/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.ExportBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid export backend in config: %s", appConfig.ExportBackend)
	}

	return Config{
		Type: backendType,

		GoogleSpreadsheetID:         appConfig.GoogleSpreadsheetID,
		GooglePlanSheetName:         appConfig.GooglePlanSheetName,
		GoogleSummarySheetName:      appConfig.GoogleSummarySheetName,
		GoogleTransactionsSheetName: appConfig.GoogleTransactionsSheetName,
		GoogleOAuthClientFile:       appConfig.GoogleOAuthClientFile,
		GoogleOAuthTokenFile:        appConfig.GoogleOAuthTokenFile,
		GoogleOAuthClientJSON:       appConfig.GoogleOAuthClientJSON,
		GoogleOAuthTokenJSON:        appConfig.GoogleOAuthTokenJSON,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid export backend: %s", c.Type)
	}

	switch c.Type {
	case GoogleBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for the google export backend")
		}

		// Must have either client file or JSON
		hasClientFile := c.GoogleOAuthClientFile != ""
		hasClientJSON := c.GoogleOAuthClientJSON != ""
		if !hasClientFile && !hasClientJSON {
			return fmt.Errorf("either GoogleOAuthClientFile or GoogleOAuthClientJSON must be provided for the google export backend")
		}

		// Must have either token file or JSON
		hasTokenFile := c.GoogleOAuthTokenFile != ""
		hasTokenJSON := c.GoogleOAuthTokenJSON != ""
		if !hasTokenFile && !hasTokenJSON {
			return fmt.Errorf("either GoogleOAuthTokenFile or GoogleOAuthTokenJSON must be provided for the google export backend")
		}

	case MemoryBackend, DisabledBackend:
		// No additional configuration required
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{GoogleBackend, MemoryBackend, DisabledBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
