package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/spf13/viper"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

// Store holds the current backend endpoints. Callers take a snapshot with
// Backends and pass it into each backend call, so a concurrent Save never
// changes the endpoints of a call already in flight.
type Store struct {
	mu       sync.RWMutex
	backends model.Backends
	path     string
}

func NewStore(backends model.Backends, path string) *Store {
	return &Store{backends: backends, path: path}
}

// Backends returns a copy of the current endpoints.
func (s *Store) Backends() model.Backends {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backends
}

// Path is the file Save writes to.
func (s *Store) Path() string {
	return s.path
}

// Save writes the endpoints to the store's file and then makes them current.
// Invalid endpoints or a failed write leave the previous endpoints in effect.
func (s *Store) Save(b model.Backends) error {
	if err := validate.Validate(b); err != nil {
		return fmt.Errorf("invalid backend configuration: %w", err)
	}
	if s.path == "" {
		return errors.New("no backends file configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeBackends(s.path, b); err != nil {
		return err
	}
	s.backends = b
	return nil
}

func writeBackends(path string, b model.Backends) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)
	for _, svc := range model.Services {
		ep := b.For(svc)
		prefix := "backends." + string(svc) + "."
		v.Set(prefix+"url", ep.URL)
		v.Set(prefix+"token", ep.Token)
		v.Set(prefix+"timeout", ep.Timeout.String())
		v.Set(prefix+"insecure_skip_verify", ep.InsecureSkipVerify)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

type savedBackends map[model.Service]model.Endpoint

// readBackends loads a file written by Save. A missing file yields no overrides.
func readBackends(path string) (savedBackends, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read saved backends: %w", err)
	}

	saved := savedBackends{}
	for _, svc := range model.Services {
		key := "backends." + string(svc)
		if !v.IsSet(key) {
			continue
		}
		var ep model.Endpoint
		if err := v.UnmarshalKey(key, &ep); err != nil {
			return nil, fmt.Errorf("failed to decode saved %s backend: %w", svc, err)
		}
		saved[svc] = ep
	}
	return saved, nil
}

// over replaces each endpoint of base that was saved, keeping base's timeout
// when the saved one is unset.
func (s savedBackends) over(base model.Backends) model.Backends {
	for svc, ep := range s {
		if ep.Timeout == 0 {
			ep.Timeout = base.For(svc).Timeout
		}
		base = base.With(svc, ep)
	}
	return base
}
