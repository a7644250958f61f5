package pipeline

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/kv"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/store"
)

// LoadResult holds an opened store and the slot behind it.
type LoadResult struct {
	Store   *store.Store
	Slot    kv.Slot
	Backend string
	DataDir string
}

// Close releases the slot.
func (r *LoadResult) Close() error {
	if r == nil || r.Slot == nil {
		return nil
	}
	return r.Slot.Close()
}

// Load opens the configured slot backend and rehydrates the record store.
func Load(cfg config.Config, logger *log.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = log.Nop()
	}
	dataDir := cfg.DataDir()
	backend := cfg.General.Backend
	if backend == "" {
		backend = kv.BackendFile
	}

	slot, err := kv.Open(backend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage in %s: %w", backend, dataDir, err)
	}

	st, err := store.Open(slot, store.Options{
		Categories: cfg.Records.Categories,
		Logger:     logger,
	})
	if err != nil {
		_ = slot.Close()
		return nil, err
	}
	if st.Recovered() {
		logger.Warn("stored records were unreadable and have been ignored", "backend", backend, "dir", dataDir)
	}

	logger.Debug("store ready", "backend", backend, "dir", dataDir, "records", st.Len())
	return &LoadResult{Store: st, Slot: slot, Backend: backend, DataDir: dataDir}, nil
}
