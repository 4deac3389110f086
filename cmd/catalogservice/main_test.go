package main

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/internal/config"
	"movie-catalog/internal/paging"
)

func TestPageDefaults(t *testing.T) {
	d := pageDefaults(config.PagingConfig{DefaultSize: 20, ReviewSize: 5, MaxSize: 100})

	assert.Equal(t, 20, d.Movies.Size)
	assert.Equal(t, 5, d.Reviews.Size)
	assert.Equal(t, 20, d.Top.Size)
	assert.Equal(t, 100, d.Top.MaxSize)
	assert.Empty(t, d.Top.Sortable)
	assert.Equal(t, []paging.Sort{paging.Desc("createdAt")}, d.Reviews.Sort)
	assert.Contains(t, d.Movies.Sortable, "releaseYear")
}

func TestRunReturnsServeError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{
			HTTPAddr:        taken.Addr().String(),
			GRPCAddr:        "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Paging:  config.PagingConfig{DefaultSize: 20, ReviewSize: 5, MaxSize: 100},
	}

	done := make(chan error, 1)
	go func() { done <- run(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP server on "+taken.Addr().String())
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the HTTP listener failed")
	}
}
