package agent

import (
	"fmt"
	"strings"

	"fin-advisor/internal/config"
)

// NewFromConfig picks the backend variant. Config validation already ensured
// the chosen variant has a base URL, so an unknown variant here is a bug.
func NewFromConfig(cfg config.AdvisorConfig, tokens TokenStore) (Backend, error) {
	switch strings.TrimSpace(cfg.Variant) {
	case "primary":
		return NewPrimaryClient(cfg.PrimaryBaseURL, cfg.RequestTimeout), nil
	case "legacy":
		return NewLegacyClient(cfg.LegacyBaseURL, tokens, cfg.RequestTimeout), nil
	case "demo":
		return NewDemoBackend(), nil
	default:
		return nil, fmt.Errorf("unknown advisor variant %q", cfg.Variant)
	}
}
