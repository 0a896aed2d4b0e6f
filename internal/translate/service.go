// Package translate turns a piece of text into a translation by calling the
// configured backend, and records every successful result.
package translate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pysugar/quicktrans/internal/config"
	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/logging"
	"github.com/pysugar/quicktrans/internal/platform"
	"github.com/pysugar/quicktrans/internal/util"
)

// ConfigSource provides configuration snapshots.
type ConfigSource interface {
	Current() config.Config
}

// Recorder persists completed translations.
type Recorder interface {
	Save(ctx context.Context, sourceText, translatedText, sourceLang, targetLang string) (string, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Config    ConfigSource
	Transport Transport
	Store     Recorder
	// Timeout bounds a single backend call. Nil means no extra deadline.
	Timeout func(platform.Platform) time.Duration
}

// Service is the single entry point for translations.
type Service struct {
	config    ConfigSource
	transport Transport
	store     Recorder
	timeout   func(platform.Platform) time.Duration
}

// New wires a Service. Every collaborator except Timeout is required.
func New(d Deps) (*Service, error) {
	switch {
	case d.Config == nil:
		return nil, fmt.Errorf("%w: config", ErrNotInitialized)
	case d.Transport == nil:
		return nil, fmt.Errorf("%w: transport", ErrNotInitialized)
	case d.Store == nil:
		return nil, fmt.Errorf("%w: store", ErrNotInitialized)
	}
	return &Service{
		config:    d.Config,
		transport: d.Transport,
		store:     d.Store,
		timeout:   d.Timeout,
	}, nil
}

// Translate translates text from `from` into `to` using the live configuration.
// A translation is returned only after its record has been saved.
func (s *Service) Translate(ctx context.Context, text string, to, from lang.Language) (string, error) {
	requestID := logging.GetRequestID(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
		ctx = logging.WithRequestID(ctx, requestID)
	}

	if !to.Valid() || !from.Valid() {
		return "", &StageError{Stage: StageBuild, Err: fmt.Errorf("invalid language pair %s -> %s", from, to)}
	}

	cfg := s.config.Current()
	payload := Build(text, to, from, cfg)
	start := time.Now()

	sendCtx := ctx
	if s.timeout != nil {
		if d := s.timeout(cfg.Platform); d > 0 {
			var cancel context.CancelFunc
			sendCtx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
	}

	raw, err := s.transport.Send(sendCtx, cfg.APIURL, cfg.APIKey, payload)
	if err != nil {
		log.Printf("[translate] [%s] %s %s -> %s send failed: %v", requestID, cfg.Platform, from, to, err)
		return "", &StageError{Stage: StageSend, Err: err}
	}

	translated, err := Parse(raw, cfg.Platform, cfg.ModelName)
	if err != nil {
		log.Printf("[translate] [%s] %s parse failed: %v (body: %s)", requestID, cfg.Platform, err, util.TruncateBytes(raw))
		return "", &StageError{Stage: StageParse, Err: err}
	}

	id, err := s.store.Save(ctx, text, translated, from.Code(), to.Code())
	if err != nil {
		log.Printf("[translate] [%s] persist failed: %v", requestID, err)
		return "", &StageError{Stage: StagePersist, Err: err}
	}

	log.Printf("[translate] [%s] %s/%s %s -> %s ok in %s (record %s)",
		requestID, cfg.Platform, cfg.ModelName, from, to, time.Since(start).Round(time.Millisecond), id)
	return translated, nil
}
