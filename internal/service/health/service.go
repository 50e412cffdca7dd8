package health

import (
	"context"
	"strings"
	"sync"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

// Prober checks a single backend.
type Prober interface {
	Probe(ctx context.Context, service model.Service, ep model.Endpoint) model.ServiceStatus
}

type HealthServicer interface {
	CheckAll(ctx context.Context, backends model.Backends) []model.ServiceStatus
}

type Service struct {
	prober Prober
}

func NewService(prober Prober) *Service {
	return &Service{prober: prober}
}

// CheckAll probes the four backends in parallel and returns their statuses in
// model.Services order. Each probe carries its own timeout.
func (s *Service) CheckAll(ctx context.Context, backends model.Backends) []model.ServiceStatus {
	statuses := make([]model.ServiceStatus, len(model.Services))

	// One goroutine per backend; each writes only its own index, so the
	// result order matches a sequential check.
	var wg sync.WaitGroup
	for i, svc := range model.Services {
		wg.Add(1)
		go func(i int, svc model.Service) {
			defer wg.Done()
			statuses[i] = s.prober.Probe(ctx, svc, backends.For(svc))
		}(i, svc)
	}
	wg.Wait()

	return statuses
}

// Mark is the status glyph shown before a service line.
func Mark(available bool) string {
	if available {
		return "✅"
	}
	return "❌"
}

// Format renders statuses as one "<mark> <label>: <message>" line per service,
// separated by blank lines.
func Format(statuses []model.ServiceStatus) string {
	lines := make([]string, 0, len(statuses))
	for _, st := range statuses {
		lines = append(lines, Mark(st.Available)+" "+st.Label+": "+st.Message)
	}
	return strings.Join(lines, "\n\n")
}
