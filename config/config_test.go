package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Orders", cfg.Storage.OrdersDir)
	assert.Equal(t, filepath.Join("Data", "Products.txt"), cfg.ProductsFile())
	assert.Equal(t, filepath.Join("Data", "Taxes.txt"), cfg.TaxesFile())
	assert.Equal(t, "audit.txt", cfg.Storage.AuditFile)

	minArea, err := cfg.MinArea()
	require.NoError(t, err)
	assert.Equal(t, "100", minArea.String())
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flooring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  orders_dir: /srv/flooring/orders
  backup_dir: /srv/flooring/backup
business:
  export_format: xlsx
`), 0o644))

	t.Setenv("BACKUP_DIR", "/tmp/backup")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/flooring/orders", cfg.Storage.OrdersDir)
	assert.Equal(t, "/tmp/backup", cfg.Storage.BackupDir)
	assert.Equal(t, "Data", cfg.Storage.DataDir)
	assert.Equal(t, "xlsx", cfg.Business.ExportFormat)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flooring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("MIN_ORDER_AREA", "lots")
	_, err = Load("")
	assert.Error(t, err)
}
