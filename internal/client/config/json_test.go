package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_OverlaysConfig(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"api_base_url":           "https://portal.example/api",
		"search_debounce":        "250ms",
		"admin_search_debounce":  "100ms",
		"purchase_dismiss_after": "5s",
	})

	os.Args = []string{"ispcli", "-c", path}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "https://portal.example/api", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 100*time.Millisecond, cfg.AdminSearchDebounce)
	assert.Equal(t, 5*time.Second, cfg.PurchaseDismissAfter)
	// untouched fields keep their defaults
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ".", cfg.StateDir)
}

func Test_parseJson_NoFlagMeansNoOverlay(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"ispcli"}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
}
