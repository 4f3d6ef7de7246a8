package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/internal/config"
)

func TestBuildStore_Backends(t *testing.T) {
	cfg := config.Default()

	store, locker, err := buildStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Nil(t, locker, "memory backend needs no distributed locker")

	cfg.Store.Backend = "file"
	cfg.Store.Path = t.TempDir()
	store, locker, err = buildStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Nil(t, locker)

	// The redis client connects lazily, so construction needs no server.
	cfg.Store.Backend = "redis"
	store, locker, err = buildStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NotNil(t, locker, "redis backend must carry the distributed locker")

	cfg.Store.Backend = "etcd"
	_, _, err = buildStore(cfg)
	assert.Error(t, err)
}
