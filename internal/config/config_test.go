package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "csv", cfg.Data.Source)
	assert.Equal(t, "Asia/Tokyo", cfg.Data.Timezone)
	assert.Equal(t, 70.0, cfg.Report.ThresholdA)
	assert.Equal(t, 90.0, cfg.Report.ThresholdB)
	assert.Equal(t, 10, cfg.Report.OpenHour)
	assert.Equal(t, 24, cfg.Report.CloseHour)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.Addr)

	d, err := cfg.DefaultDate()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-16", d.Format("2006-01-02"))
	assert.Equal(t, "Asia/Tokyo", d.Location().String())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nDATA_SOURCE=postgres\nABC_THRESHOLD_A=60\nREDIS_ADDR=localhost:6379\nCACHE_TTL_SECONDS=30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Data.Source)
	assert.Equal(t, 60.0, cfg.Report.ThresholdA)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=9090\n"), 0o644))
	t.Setenv("APP_PORT", "7070")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"DATA_SOURCE":        "mongo",
		"TIMEZONE":           "Mars/Olympus",
		"DEFAULT_DATE":       "16/05/2024",
		"BUSINESS_OPEN_HOUR": "25",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", Name: "sales", User: "app", Password: "pw", SSLMode: "disable"}
	assert.Equal(t, "host=db user=app password=pw dbname=sales port=5432 sslmode=disable", db.DSN())
}
