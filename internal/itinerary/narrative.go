package itinerary

import (
	"fmt"
	"strings"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

type stage int

const (
	stageArrival stage = iota + 1
	stageDeepening
	stageIntegration
)

// stageOf maps a day onto the three-part arc. Trips of up to three days use
// the day number directly; longer trips open with arrival, close with
// integration and deepen in between.
func stageOf(dayNumber, totalDays int) stage {
	if totalDays <= 3 {
		switch dayNumber {
		case 2:
			return stageDeepening
		case 3:
			return stageIntegration
		default:
			return stageArrival
		}
	}
	switch {
	case dayNumber <= 1:
		return stageArrival
	case dayNumber >= totalDays:
		return stageIntegration
	default:
		return stageDeepening
	}
}

func themeFor(s stage) localized {
	switch s {
	case stageDeepening:
		return localized{"Deepening Connection", "つながりを深める"}
	case stageIntegration:
		return localized{"Integration & Reflection", "統合と振り返り"}
	case stageArrival:
	}
	return localized{"Arrival & Grounding", "到着とグラウンディング"}
}

// DayTheme names a day after its stage in the trip and its leading pillar.
func DayTheme(dayNumber, totalDays int, blocks []domain.Block, locale domain.Locale) string {
	theme := themeFor(stageOf(dayNumber, totalDays)).in(locale)
	if len(blocks) == 0 {
		return theme
	}
	return theme + " - " + blocks[0].Pillar.Label(locale)
}

// DayNarrative wraps a day theme in the prose for its stage.
func DayNarrative(dayNumber, totalDays int, theme string, locale domain.Locale) string {
	s := stageOf(dayNumber, totalDays)
	if locale == domain.LocaleJA {
		switch s {
		case stageArrival:
			return theme + "の一日です。穏やかなペースで始め、新しい環境に慣れることに焦点を当てます。各体験は、快適さとバランスを優先して設計されています。"
		case stageDeepening:
			return theme + "の一日です。昨日の基礎の上に、より深い実践と探求を加えます。自分のペースで進めてください。"
		case stageIntegration:
		}
		return theme + "の最終日です。これまでの体験を振り返り、日常生活に持ち帰る洞察を統合します。"
	}

	switch s {
	case stageArrival:
		return fmt.Sprintf("A day of %s. We begin at a gentle pace, focusing on settling into your new environment. Each experience is designed with comfort and balance as priorities.", theme)
	case stageDeepening:
		return fmt.Sprintf("A day of %s. Building on yesterday's foundation, we add deeper practices and exploration. Move at your own pace.", theme)
	case stageIntegration:
	}
	return fmt.Sprintf("The final day of %s. Time to reflect on your experiences and integrate the insights you'll carry back into daily life.", theme)
}

func title(days int, locale domain.Locale) string {
	if locale == domain.LocaleJA {
		return fmt.Sprintf("%d日間のウェルネス体験", days)
	}
	return fmt.Sprintf("%d-Day Wellness Journey", days)
}

func description(top []domain.Pillar, locale domain.Locale) string {
	labels := make([]string, len(top))
	for i, p := range top {
		labels[i] = p.Label(locale)
	}
	if locale == domain.LocaleJA {
		return strings.Join(labels, "、") + "に焦点を当てた、快適さとバランスを重視した個人向けのウェルネス旅程です。各体験は、リラックスと回復を促進するように慎重に選ばれています。"
	}
	return fmt.Sprintf("A personalized wellness itinerary focusing on %s, emphasizing comfort and balance. Each experience is carefully selected to promote relaxation and restoration.", strings.Join(labels, ", "))
}

func overallNarrative(days int, locale domain.Locale) string {
	if locale == domain.LocaleJA {
		return fmt.Sprintf("この%d日間の旅は、穏やかな導入から始まり、徐々に深まり、最後は統合と振り返りで締めくくられます。旅を通して、快適さと個人のペースが優先されます。各日には柔軟性のための代替オプションが含まれています。", days)
	}
	return fmt.Sprintf("This %d-day journey begins with a gentle introduction, gradually deepens, and concludes with integration and reflection. Throughout, comfort and personal pacing are prioritized. Each day includes alternative options for flexibility.", days)
}
