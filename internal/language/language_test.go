package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISOCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"English", "en"},
		{"german", "de"},
		{"POLISH", "pl"},
		{"Czech", "cs"},
		{"Slovak", "sk"},
		{"Ukrainian", "uk"},
		{"Bulgarian", "bg"},
		{"Finnish", "fi"},
		{"fi", "fi"},
		{"Klingon", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ISOCode(tt.in))
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bg", "Bulgarian"},
		{"EN", "English"},
		{"uk", "Ukrainian"},
		{"finnish", "Finnish"},
		{"German", "German"},
		{"fr", Unknown},
		{"unknown", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.in))
		})
	}
}

func TestFallbacksStayDistinct(t *testing.T) {
	assert.Equal(t, "en", ISOCode("xx"))
	assert.Equal(t, Unknown, DisplayName("xx"))
	assert.NotEqual(t, DisplayName(ISOCode("xx")), DisplayName("xx"))
}

func TestTotalOverSupported(t *testing.T) {
	for _, l := range Supported() {
		assert.Equal(t, l.Code, ISOCode(l.Name))
		assert.Equal(t, l.Name, DisplayName(l.Code))
		assert.Equal(t, l.Name, DisplayName(l.Name))
	}
	assert.Len(t, Supported(), 8)
}

func TestBackendName(t *testing.T) {
	assert.Equal(t, "bulgarian", BackendName("bg"))
	assert.Equal(t, "german", BackendName("German"))
	assert.Equal(t, "english", BackendName("Esperanto"))
}

func TestSame(t *testing.T) {
	assert.True(t, Same("English", "en"))
	assert.True(t, Same("polish", "Polish"))
	assert.False(t, Same("German", "Czech"))
}
