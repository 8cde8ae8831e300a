package config

import (
	"encoding/json"
	"os"

	"github.com/noverdy/ispcli/internal/flagx"
	"github.com/noverdy/ispcli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given either as strings like "200ms" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	StateDir             string         `json:"state_dir"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	SearchDebounce       timex.Duration `json:"search_debounce"`
	AdminSearchDebounce  timex.Duration `json:"admin_search_debounce"`
	PurchaseDismissAfter timex.Duration `json:"purchase_dismiss_after"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. Missing file path means no JSON is loaded. Zero-valued
// fields in the file leave the corresponding Config field untouched.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StateDir != "" {
		cfg.StateDir = jc.StateDir
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce.Duration != 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.AdminSearchDebounce.Duration != 0 {
		cfg.AdminSearchDebounce = jc.AdminSearchDebounce.Duration
	}
	if jc.PurchaseDismissAfter.Duration != 0 {
		cfg.PurchaseDismissAfter = jc.PurchaseDismissAfter.Duration
	}
}
