package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/handlergrid/internal/hcl"
	"github.com/specialistvlad/handlergrid/internal/registry"
	"github.com/specialistvlad/handlergrid/internal/testutil"
)

// SetupAppTest creates a new app over the users manifest with debug logging
// captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if len(cfg.ManifestPaths) == 0 {
		root := testutil.WriteFiles(t, map[string]string{"users.hcl": testutil.UsersManifest})
		cfg.ManifestPaths = []string{filepath.Join(root, "users.hcl")}
	}

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := NewApp(logBuffer, cfg, hcl.NewLoader(), modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("HANDLERGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
