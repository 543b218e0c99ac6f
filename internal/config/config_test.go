package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INVENTORY_API_URL", "http://inventory.local/api")
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("GOOGLE_SHEET_LEDGER_ID", "")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Inventory.DirectoryTTL)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, "@every 10m", cfg.Session.SweepSchedule)
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadRequiresInventoryURL(t *testing.T) {
	t.Setenv("INVENTORY_API_URL", "")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVENTORY_API_URL")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("INVENTORY_API_URL", "http://inventory.local/api")
	t.Setenv("SESSION_IDLE_TTL", "soon")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_IDLE_TTL")
}

func TestValidateSheetsNeedsCredentials(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: "8080"},
		Inventory: InventoryConfig{BaseURL: "http://x", Timeout: time.Second},
		Sheets:    SheetsConfig{SpreadsheetID: "sheet"},
		Session:   SessionConfig{IdleTTL: time.Minute, SweepSchedule: "@every 1m"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH")

	cfg.Sheets.CredentialsPath = "/etc/creds.json"
	assert.NoError(t, cfg.Validate())
}
