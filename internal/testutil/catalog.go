package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ShaftAndRatioCatalog is a small two-by-two catalog used across tests.
const ShaftAndRatioCatalog = `
renderer {
  output_dir = "renders"
}

category "shaft" {
  option "5mm" {
    d = 5.4
  }
  option "4mm" {
    d = 4.4
  }
}

category "ratio" {
  option "9to47" {
    t = 9
  }
  option "11to45" {
    t = 11
  }
}
`

// WriteCatalog writes src to a catalog file inside a fresh temporary
// directory and returns its path.
func WriteCatalog(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600), "failed to set up catalog file")
	return path
}
