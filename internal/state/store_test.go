package state_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tubepost/internal/config"
	"tubepost/internal/services"
	"tubepost/internal/state"
	"tubepost/internal/testsupport"
)

func TestNewSelectsBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	cfg.State.Backend = config.StateBackendFile
	store, err := state.New(cfg)
	if err != nil {
		t.Fatalf("New file: %v", err)
	}
	if _, ok := store.(*state.FileStore); !ok {
		t.Fatalf("expected file store, got %T", store)
	}

	cfg.State.Backend = config.StateBackendSQLite
	cfg.State.SQLitePath = filepath.Join(testsupport.BaseDir(cfg), "state.db")
	store, err = state.New(cfg)
	if err != nil {
		t.Fatalf("New sqlite: %v", err)
	}
	defer store.Close()
	if err := store.Set(context.Background(), "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cfg.State.Backend = config.StateBackendGitHub
	store, err = state.New(cfg)
	if err != nil {
		t.Fatalf("New github: %v", err)
	}
	if _, ok := store.(*state.GitHubStore); !ok {
		t.Fatalf("expected github store, got %T", store)
	}

	cfg.State.Backend = "etcd"
	if _, err := state.New(cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
