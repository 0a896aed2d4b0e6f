package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/pysugar/quicktrans/internal/events"
)

// ErrInvalid marks a configuration rejected by Validate.
var ErrInvalid = errors.New("invalid config")

// Service holds the single live configuration of the process.
// Readers take snapshots under mu; writers are serialized by writeMu so that
// storage I/O never happens while mu is held.
type Service struct {
	storage   Storage
	publisher events.Publisher

	mu      sync.RWMutex
	current Config

	writeMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sends config.updated events to p after every successful swap.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// Load reads the persisted config, materializing Default() when none exists.
func Load(storage Storage, opts ...Option) (*Service, error) {
	s := &Service{storage: storage}
	for _, opt := range opts {
		opt(s)
	}

	data, err := storage.Read()
	switch {
	case errors.Is(err, ErrNotFound):
		cfg := Default()
		if err := s.persist(cfg); err != nil {
			return nil, err
		}
		s.current = cfg
		log.Printf("[config] No config found, wrote defaults (platform=%s, model=%s)", cfg.Platform, cfg.ModelName)
		return s, nil
	case err != nil:
		return nil, &IOError{Op: "read", Path: storagePath(storage), Err: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &IOError{Op: "decode", Path: storagePath(storage), Err: err}
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		log.Printf("[config] Loaded config is incomplete: %v", err)
	}
	s.current = cfg
	log.Printf("[config] Loaded config (platform=%s, model=%s, url=%s)", cfg.Platform, cfg.ModelName, cfg.APIURL)
	return s, nil
}

// Current returns a snapshot of the live configuration.
func (s *Service) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace validates and persists next, then makes it the live configuration.
// If persisting fails the live configuration is left untouched.
func (s *Service) Replace(next Config) error {
	next = next.withDefaults()
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persist(next); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	log.Printf("[config] Updated config (platform=%s, model=%s, url=%s)", next.Platform, next.ModelName, next.APIURL)
	events.Publish(s.publisher, events.TypeConfigUpdated, next.Redacted())
	return nil
}

// Reset restores and persists Default().
func (s *Service) Reset() (Config, error) {
	cfg := Default()
	if err := s.Replace(cfg); err != nil {
		return Config{}, err
	}
	return s.Current(), nil
}

func (s *Service) persist(cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &IOError{Op: "encode", Err: err}
	}
	if err := s.storage.Write(data); err != nil {
		return &IOError{Op: "write", Path: storagePath(s.storage), Err: err}
	}
	return nil
}

func storagePath(storage Storage) string {
	if p, ok := storage.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}
