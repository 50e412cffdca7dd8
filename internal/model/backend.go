package model

import "time"

// Service identifies one of the four inference backends.
type Service string

const (
	ServiceMedReason Service = "medreason"
	ServiceWhisper   Service = "whisper"
	ServiceNLLB      Service = "nllb"
	ServiceMedGemma  Service = "medgemma"
)

// Services lists the backends in the order they are checked and displayed.
var Services = []Service{ServiceMedReason, ServiceWhisper, ServiceNLLB, ServiceMedGemma}

// Label is the human-readable name used in status lines.
func (s Service) Label() string {
	switch s {
	case ServiceMedReason:
		return "MedReason LLM"
	case ServiceWhisper:
		return "Whisper STT"
	case ServiceNLLB:
		return "NLLB Translator"
	case ServiceMedGemma:
		return "MedGemma Multimodal"
	}
	return string(s)
}

// Endpoint is the address and credential of one backend.
type Endpoint struct {
	URL                string        `json:"url" mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	Token              string        `json:"token,omitempty" mapstructure:"token" yaml:"token"`
	Timeout            time.Duration `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
	InsecureSkipVerify bool          `json:"insecure_skip_verify" mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Backends is an immutable snapshot of the four endpoints passed into each call.
type Backends struct {
	MedReason Endpoint `json:"medreason" mapstructure:"medreason" yaml:"medreason"`
	Whisper   Endpoint `json:"whisper" mapstructure:"whisper" yaml:"whisper"`
	NLLB      Endpoint `json:"nllb" mapstructure:"nllb" yaml:"nllb"`
	MedGemma  Endpoint `json:"medgemma" mapstructure:"medgemma" yaml:"medgemma"`
}

// For returns the endpoint configured for service.
func (b Backends) For(s Service) Endpoint {
	switch s {
	case ServiceMedReason:
		return b.MedReason
	case ServiceWhisper:
		return b.Whisper
	case ServiceNLLB:
		return b.NLLB
	case ServiceMedGemma:
		return b.MedGemma
	}
	return Endpoint{}
}

// With returns a copy of b with the endpoint of service replaced.
func (b Backends) With(s Service, e Endpoint) Backends {
	switch s {
	case ServiceMedReason:
		b.MedReason = e
	case ServiceWhisper:
		b.Whisper = e
	case ServiceNLLB:
		b.NLLB = e
	case ServiceMedGemma:
		b.MedGemma = e
	}
	return b
}

// RedactedToken replaces a set token in anything shown to clients.
const RedactedToken = "********"

// Redacted returns a copy safe to show to clients: tokens are masked.
func (b Backends) Redacted() Backends {
	mask := func(e Endpoint) Endpoint {
		if e.Token != "" {
			e.Token = RedactedToken
		}
		return e
	}
	b.MedReason = mask(b.MedReason)
	b.Whisper = mask(b.Whisper)
	b.NLLB = mask(b.NLLB)
	b.MedGemma = mask(b.MedGemma)
	return b
}

// ServiceStatus is the health of one backend.
type ServiceStatus struct {
	Service   Service `json:"service"`
	Label     string  `json:"label"`
	Available bool    `json:"available"`
	Message   string  `json:"message"`
}
