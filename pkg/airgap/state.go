package airgap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/sirupsen/logrus"
)

// State remembers the outcome of the last successful probe.
type State interface {
	// Previous returns the remembered classification and whether one exists.
	Previous() (airgapped bool, known bool)
	Remember(airgapped bool)
}

// MemoryState keeps the classification for the life of the process.
type MemoryState struct {
	mu        sync.Mutex
	known     bool
	airgapped bool
}

func (s *MemoryState) Previous() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.airgapped, s.known
}

func (s *MemoryState) Remember(airgapped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known = true
	s.airgapped = airgapped
}

const stateKey = "airgapped"

// CacheState forgets the classification after a TTL.
type CacheState struct {
	cache *bigcache.BigCache
}

func NewCacheState(ctx context.Context, ttl time.Duration) (*CacheState, error) {
	config := bigcache.DefaultConfig(ttl)
	config.Verbose = false
	cache, err := bigcache.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating airgap state cache: %w", err)
	}
	return &CacheState{cache: cache}, nil
}

func (s *CacheState) Previous() (bool, bool) {
	entry, err := s.cache.Get(stateKey)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			logrus.Warnf("reading remembered airgap state: %v", err)
		}
		return false, false
	}
	return len(entry) == 1 && entry[0] == 1, true
}

func (s *CacheState) Remember(airgapped bool) {
	value := []byte{0}
	if airgapped {
		value[0] = 1
	}
	if err := s.cache.Set(stateKey, value); err != nil {
		logrus.Warnf("remembering airgap state: %v", err)
	}
}

func (s *CacheState) Close() error {
	return s.cache.Close()
}
