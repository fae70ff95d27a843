package provider

import (
	"context"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

const (
	emptyAudioEN = "[Audio placeholder - dev mode]"
	emptyAudioJA = "[音声プレースホルダー - 開発モード]"

	sampleTranscriptEN = "I want to reduce stress and sleep better."
	sampleTranscriptJA = "ストレスを減らして、よく眠れるようになりたいです。"
)

// Placeholder is a Transcriber that ignores audio content and returns a
// fixed sentence. Zero-length audio yields a placeholder marker instead.
type Placeholder struct{}

// NewPlaceholder creates the development transcriber.
func NewPlaceholder() *Placeholder { return &Placeholder{} }

// Transcribe implements port.Transcriber.
func (p *Placeholder) Transcribe(ctx context.Context, audio []byte, _ string, locale domain.Locale) (*domain.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locale = locale.OrDefault()
	ja := locale == domain.LocaleJA

	if len(audio) == 0 {
		text := emptyAudioEN
		if ja {
			text = emptyAudioJA
		}
		return &domain.Transcription{Text: text, Confidence: 1.0, Locale: locale}, nil
	}

	text := sampleTranscriptEN
	if ja {
		text = sampleTranscriptJA
	}
	return &domain.Transcription{Text: text, Confidence: 0.95, Locale: locale}, nil
}
