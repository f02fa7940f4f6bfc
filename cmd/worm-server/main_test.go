package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/algebra-worms/config"
)

func TestLoadConfigAddrOverride(t *testing.T) {
	cfg, err := loadConfig("", "127.0.0.1:9999")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Network.Addr)

	cfg, err = loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Network.Addr, cfg.Network.Addr)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("does-not-exist.yaml", "")
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Network.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Network.Codec = "xml"
	assert.Error(t, serve(context.Background(), cfg))
}
