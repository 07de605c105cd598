package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/config"
	"github.com/vk/calcnote/internal/mathengine"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	assert.Equal(t, ModeTUI, cfg.Mode)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, mathengine.DefaultPrecision, cfg.Precision)
	assert.NotNil(t, cfg.Explicit)
}

func TestNewConfig_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "unknown mode", cfg: Config{Mode: "web"}, wantErr: "invalid mode"},
		{name: "eval without input", cfg: Config{Mode: ModeEval}, wantErr: "requires an input file"},
		{name: "unknown store", cfg: Config{Store: "s3"}, wantErr: "invalid store"},
		{name: "file store without path", cfg: Config{Store: "file"}, wantErr: "requires a store path"},
		{name: "host store without url", cfg: Config{Store: "host"}, wantErr: "requires a host URL"},
		{name: "precision too high", cfg: Config{Precision: 30}, wantErr: "precision must be between"},
		{name: "serve without port", cfg: Config{Mode: ModeServe}, wantErr: "requires a port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	// --- Arrange ---
	precision := 6
	disabled := false
	file := &config.File{
		Precision: &precision,
		Seed:      []string{"1 + 1"},
		Units:     []*config.Unit{{Name: "widget"}},
		Currency:  &config.Currency{Enabled: &disabled, URL: "http://rates.local", TimeoutDuration: 3 * time.Second},
		Storage:   &config.Storage{Kind: "file", Path: "notes.yaml"},
	}
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, cfg.Merge(file))

	// --- Assert ---
	assert.Equal(t, 6, cfg.Precision)
	assert.Equal(t, []string{"1 + 1"}, cfg.Seed)
	require.Len(t, cfg.Units, 1)
	assert.True(t, cfg.NoCurrency)
	assert.Equal(t, "http://rates.local", cfg.CurrencyURL)
	assert.Equal(t, 3*time.Second, cfg.CurrencyTimeout)
	assert.Equal(t, "file", cfg.Store)
	assert.Equal(t, "notes.yaml", cfg.StorePath)
}

func TestConfig_MergeKeepsExplicitFlags(t *testing.T) {
	// --- Arrange ---
	precision := 6
	file := &config.File{
		Precision: &precision,
		Storage:   &config.Storage{Kind: "file", Path: "notes.yaml"},
	}
	cfg, err := NewConfig(Config{
		Precision: 10,
		Store:     "memory",
		Explicit:  map[string]bool{"precision": true, "store": true},
	})
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, cfg.Merge(file))

	// --- Assert ---
	assert.Equal(t, 10, cfg.Precision)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "notes.yaml", cfg.StorePath)
}

func TestConfig_MergeRevalidates(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)

	err = cfg.Merge(&config.File{Storage: &config.Storage{Kind: "host"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a host URL")
}
