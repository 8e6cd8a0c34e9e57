package testutils

import (
	"testing"

	"github.com/nfrund/gameroom/internal/config"
)

// ConfigForTests returns a config.Provider with deterministic values for
// unit tests that need configuration but no real database.
func ConfigForTests(t *testing.T) config.Provider {
	t.Helper()

	return &config.Config{
		ServerAddr:    ":0",
		DBUrl:         "ws://localhost:8000/rpc",
		DBNs:          "test",
		DBDb:          "test",
		NimStartCount: 7,
	}
}
