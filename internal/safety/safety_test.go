package safety_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/safety"
)

var locales = []domain.Locale{domain.LocaleEN, domain.LocaleJA}

func TestDetectFlags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		locale   domain.Locale
		wantFlag domain.SafetyFlag
		wantStop bool
	}{
		{"self harm en", "Sometimes I want to die", domain.LocaleEN, domain.FlagSelfHarm, true},
		{"self harm uppercase", "I have been feeling SUICIDAL", domain.LocaleEN, domain.FlagSelfHarm, true},
		{"self harm hyphenated", "history of self-harm", domain.LocaleEN, domain.FlagSelfHarm, true},
		{"self harm ja", "最近死にたいと思う", domain.LocaleJA, domain.FlagSelfHarm, true},
		{"english keyword in ja session", "I want to end my life", domain.LocaleJA, domain.FlagSelfHarm, true},
		{"japanese keyword in en session", "死にたい", domain.LocaleEN, domain.FlagNone, false},
		{"medical en", "Can you diagnose my back pain?", domain.LocaleEN, domain.FlagMedicalRequest, false},
		{"medical ja", "病気について相談したい", domain.LocaleJA, domain.FlagMedicalRequest, false},
		{"self harm wins over medical", "my doctor says I am suicidal", domain.LocaleEN, domain.FlagSelfHarm, true},
		{"neutral", "I love hot springs and quiet forests", domain.LocaleEN, domain.FlagNone, false},
		{"neutral ja", "温泉が大好きです", domain.LocaleJA, domain.FlagNone, false},
		{"empty", "", domain.LocaleEN, domain.FlagNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := safety.DetectFlags(tt.text, tt.locale)

			require.Len(t, got.Flags, 1)
			assert.Equal(t, tt.wantFlag, got.Flags[0])
			assert.Equal(t, tt.wantStop, got.ShouldStop)
			assert.Equal(t, tt.wantStop, safety.ShouldStop(got))
			if tt.wantStop {
				assert.NotEmpty(t, got.EmergencyMessage)
			} else {
				assert.Empty(t, got.EmergencyMessage)
			}
		})
	}
}

func TestDetectFlags_EmergencyMessageIsLocalized(t *testing.T) {
	en := safety.DetectFlags("kill myself", domain.LocaleEN)
	ja := safety.DetectFlags("自殺", domain.LocaleJA)

	assert.Contains(t, en.EmergencyMessage, "Crisis Text Line")
	assert.Contains(t, ja.EmergencyMessage, "いのちの電話")
	assert.Equal(t, safety.EmergencyMessage(domain.LocaleEN), en.EmergencyMessage)
	assert.Equal(t, safety.EmergencyMessage(domain.LocaleJA), ja.EmergencyMessage)
}

func TestDetectFlags_NoneIsExclusive(t *testing.T) {
	inputs := []string{"", "calm", "diagnosis", "better off dead", "therapy and suicide"}
	for _, locale := range locales {
		for _, in := range inputs {
			got := safety.DetectFlags(in, locale)
			if got.Has(domain.FlagNone) {
				assert.Len(t, got.Flags, 1, "none must stand alone for %q", in)
			}
			assert.Equal(t, got.Has(domain.FlagSelfHarm), got.ShouldStop)
			assert.Equal(t, got.ShouldStop, got.EmergencyMessage != "")
		}
	}
}

func TestComfortFocusedResponse(t *testing.T) {
	t.Run("medical request gets disclaimer and redirect", func(t *testing.T) {
		got := safety.ComfortFocusedResponse("what treatment do you suggest", domain.LocaleEN)
		require.True(t, strings.HasPrefix(got, safety.MedicalDisclaimer(domain.LocaleEN)+"\n\n"))
		assert.Contains(t, got, "hot springs")
	})

	t.Run("japanese", func(t *testing.T) {
		got := safety.ComfortFocusedResponse("薬について教えて", domain.LocaleJA)
		require.True(t, strings.HasPrefix(got, safety.MedicalDisclaimer(domain.LocaleJA)))
		assert.Contains(t, got, "温泉")
	})

	t.Run("neutral input is empty", func(t *testing.T) {
		assert.Empty(t, safety.ComfortFocusedResponse("I like tea", domain.LocaleEN))
	})

	t.Run("self harm is not a medical redirect", func(t *testing.T) {
		assert.Empty(t, safety.ComfortFocusedResponse("doctor, I want to die", domain.LocaleEN))
	})
}

func TestMedicalDisclaimer(t *testing.T) {
	assert.True(t, strings.HasPrefix(safety.MedicalDisclaimer(domain.LocaleEN), "RIJ is not a medical service"))
	assert.True(t, strings.HasPrefix(safety.MedicalDisclaimer(domain.LocaleJA), "RIJは医療サービス"))
	assert.Equal(t, safety.MedicalDisclaimer(domain.LocaleEN), safety.MedicalDisclaimer("fr"))
}
