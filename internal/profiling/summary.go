package profiling

import (
	"fmt"
	"strings"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

// ProfileSummary renders a short multi-line digest of the collected profile.
// Fields that were never collected are left out entirely.
func ProfileSummary(data domain.ExtractedData, locale domain.Locale) string {
	ja := locale == domain.LocaleJA
	var lines []string

	if len(data.EmotionalState) > 0 {
		label := "Emotional state: "
		if ja {
			label = "感情状態: "
		}
		lines = append(lines, label+strings.Join(data.EmotionalState, ", "))
	}

	if len(data.PreferredPillars) > 0 {
		names := make([]string, len(data.PreferredPillars))
		for i, p := range data.PreferredPillars {
			names[i] = string(p)
		}
		label := "Preferred experiences: "
		if ja {
			label = "好きな体験: "
		}
		lines = append(lines, label+strings.Join(names, ", "))
	}

	if data.Intensity != nil {
		label := "Intensity: "
		if ja {
			label = "強度: "
		}
		lines = append(lines, label+string(*data.Intensity))
	}

	if data.CompanionCount != nil && *data.CompanionCount > 0 {
		if ja {
			lines = append(lines, fmt.Sprintf("同行者: %d人", *data.CompanionCount))
		} else {
			lines = append(lines, fmt.Sprintf("Companions: %d", *data.CompanionCount))
		}
	}

	return strings.Join(lines, "\n")
}
