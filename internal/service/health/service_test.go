package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

type fakeProber struct {
	up map[model.Service]bool
}

func (f fakeProber) Probe(_ context.Context, svc model.Service, ep model.Endpoint) model.ServiceStatus {
	st := model.ServiceStatus{Service: svc, Label: svc.Label(), Available: f.up[svc]}
	if st.Available {
		st.Message = ep.URL + " is up"
	} else {
		st.Message = "down"
	}
	return st
}

func TestCheckAll(t *testing.T) {
	svc := NewService(fakeProber{up: map[model.Service]bool{
		model.ServiceMedReason: true,
		model.ServiceNLLB:      true,
	}})

	statuses := svc.CheckAll(context.Background(), model.Backends{
		MedReason: model.Endpoint{URL: "https://mr"},
		NLLB:      model.Endpoint{URL: "https://nllb"},
	})

	require.Len(t, statuses, 4)
	for i, want := range model.Services {
		assert.Equal(t, want, statuses[i].Service)
	}
	assert.True(t, statuses[0].Available)
	assert.Equal(t, "https://mr is up", statuses[0].Message)
	assert.False(t, statuses[1].Available)
	assert.Equal(t, "https://nllb is up", statuses[2].Message)
	assert.False(t, statuses[3].Available)
}

func TestFormat(t *testing.T) {
	out := Format([]model.ServiceStatus{
		{Label: "MedReason LLM", Available: true, Message: "MedReason API is available and responding"},
		{Label: "Whisper STT", Available: false, Message: "Whisper API returned status code: 500"},
	})
	assert.Equal(t, "✅ MedReason LLM: MedReason API is available and responding\n\n"+
		"❌ Whisper STT: Whisper API returned status code: 500", out)
}
