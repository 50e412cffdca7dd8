// Package configsvc saves backend endpoints and reports their health right after.
package configsvc

import (
	"context"
	"fmt"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/service/health"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
)

const StatusSaved = "Configuration saved successfully"

// BackendStore is satisfied by config.Store.
type BackendStore interface {
	Backends() model.Backends
	Save(b model.Backends) error
}

// Result is what staff see after pressing save.
type Result struct {
	Saved      bool                  `json:"saved"`
	SaveStatus string                `json:"save_status"`
	Statuses   []model.ServiceStatus `json:"statuses"`
	// Summary is the formatted health report followed by the save status.
	Summary string `json:"summary"`
}

type ConfigServicer interface {
	Current() model.Backends
	Check(ctx context.Context) []model.ServiceStatus
	SaveAndCheck(ctx context.Context, b model.Backends) Result
}

type Service struct {
	store  BackendStore
	health health.HealthServicer
	log    *logger.Logger
}

func NewService(store BackendStore, hs health.HealthServicer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, health: hs, log: log}
}

// Current returns the endpoints in use, tokens included.
func (s *Service) Current() model.Backends {
	return s.store.Backends()
}

// Check probes the endpoints currently in use.
func (s *Service) Check(ctx context.Context) []model.ServiceStatus {
	return s.health.CheckAll(ctx, s.store.Backends())
}

// SaveAndCheck stores b and probes whatever endpoints are in effect afterwards.
// A rejected configuration leaves the previous endpoints in place.
func (s *Service) SaveAndCheck(ctx context.Context, b model.Backends) Result {
	res := Result{Saved: true, SaveStatus: StatusSaved}
	if err := s.store.Save(b); err != nil {
		s.log.WithContext(ctx).Error(err, "failed to save configuration")
		res.Saved = false
		res.SaveStatus = fmt.Sprintf("Failed to save configuration: %v", err)
	}

	res.Statuses = s.health.CheckAll(ctx, s.store.Backends())
	res.Summary = health.Format(res.Statuses) + "\n\n" + res.SaveStatus
	return res
}
