package itinerary

import "github.com/boddenberg/rij-wellness-bfa/internal/domain"

type localized struct {
	en, ja string
}

func (l localized) in(locale domain.Locale) string {
	if locale == domain.LocaleJA {
		return l.ja
	}
	return l.en
}

type blockTemplate struct {
	pillar          domain.Pillar
	title           localized
	description     localized
	timeSlot        domain.TimeSlot
	durationMinutes int
	intensity       domain.Intensity
	planB           localized
}

// Selection falls back to the first template of a slot, then to the first
// template overall, so order matters.
var blockTemplates = []blockTemplate{
	{
		pillar: domain.PillarZen,
		title:  localized{"Morning Meditation", "朝の瞑想"},
		description: localized{
			"Start your day with guided meditation in a peaceful temple setting. Focus on breath awareness and cultivating inner calm.",
			"静かな寺院で誘導瞑想から一日を始めましょう。呼吸の意識と内なる静けさを育てることに焦点を当てます。",
		},
		timeSlot:        domain.SlotMorning,
		durationMinutes: 60,
		intensity:       domain.IntensityLow,
		planB: localized{
			"If weather permits, meditation can be done in a temple garden.",
			"天候が許せば、寺院の庭園で瞑想を行うことができます。",
		},
	},
	{
		pillar: domain.PillarToji,
		title:  localized{"Onsen Experience", "温泉体験"},
		description: localized{
			"Immerse yourself in natural hot springs renowned for their therapeutic properties. Allow the mineral-rich waters to ease tension and promote deep relaxation.",
			"治療効果で有名な天然温泉に浸かりましょう。ミネラル豊富な水が緊張を和らげ、深いリラクゼーションを促進します。",
		},
		timeSlot:        domain.SlotAfternoon,
		durationMinutes: 120,
		intensity:       domain.IntensityLow,
		planB: localized{
			"Alternative private bath available if shared facilities are uncomfortable.",
			"共用施設が不快な場合は、代替の貸切風呂が利用可能です。",
		},
	},
	{
		pillar: domain.PillarShinrinyoku,
		title:  localized{"Forest Bathing Walk", "森林浴ウォーク"},
		description: localized{
			"Gentle walk through ancient forests, engaging all your senses. Experience the healing power of nature and the peace of being surrounded by trees.",
			"古代の森を通る穏やかな散歩で、すべての感覚を使いましょう。自然の癒しの力と木々に囲まれた平和を体験してください。",
		},
		timeSlot:        domain.SlotMorning,
		durationMinutes: 90,
		intensity:       domain.IntensityLow,
		planB: localized{
			"Shorter trail available for those preferring lighter activity.",
			"より軽い活動を好む方のために、短いトレイルが利用可能です。",
		},
	},
	{
		pillar: domain.PillarShokuyojo,
		title:  localized{"Seasonal Kaiseki", "季節の懐石料理"},
		description: localized{
			"Multi-course meal featuring seasonal, locally-sourced ingredients prepared with mindful attention. Each dish is designed to nourish both body and spirit.",
			"季節の地元産食材を使用した、心を込めて調理された多皿コース料理。各料理は体と精神の両方を養うように設計されています。",
		},
		timeSlot:        domain.SlotEvening,
		durationMinutes: 90,
		intensity:       domain.IntensityLow,
		planB: localized{
			"Dietary accommodations available with advance notice.",
			"事前にお知らせいただければ、食事制限に対応できます。",
		},
	},
	{
		pillar: domain.PillarMovement,
		title:  localized{"Gentle Yoga Session", "穏やかなヨガセッション"},
		description: localized{
			"Restorative yoga practice focusing on gentle stretches and breath work. Suitable for all levels, emphasizing comfort and self-care.",
			"穏やかなストレッチと呼吸法に焦点を当てた回復的なヨガの実践。すべてのレベルに適しており、快適さとセルフケアを重視します。",
		},
		timeSlot:        domain.SlotMorning,
		durationMinutes: 60,
		intensity:       domain.IntensityMedium,
		planB: localized{
			"Chair yoga option available for those with mobility considerations.",
			"移動に配慮が必要な方のために、椅子ヨガのオプションがあります。",
		},
	},
	{
		pillar: domain.PillarRest,
		title:  localized{"Afternoon Rest", "午後の休息"},
		description: localized{
			"Dedicated time for rest in your peaceful accommodation. Use this time to journal, nap, or simply be present with yourself.",
			"静かな宿泊施設での休息のための専用時間。この時間を使って日記を書いたり、昼寝をしたり、ただ自分自身と向き合ったりしてください。",
		},
		timeSlot:        domain.SlotAfternoon,
		durationMinutes: 120,
		intensity:       domain.IntensityLow,
		planB: localized{
			"Gentle reading in a garden setting if preferred.",
			"お好みであれば、庭園での穏やかな読書も可能です。",
		},
	},
	{
		pillar: domain.PillarMatsuri,
		title:  localized{"Tea Ceremony", "茶道体験"},
		description: localized{
			"Participate in a traditional tea ceremony, learning about the principles of harmony, respect, and tranquility embodied in this ancient practice.",
			"伝統的な茶道に参加し、この古代の実践に体現された調和、尊敬、静寂の原則について学びましょう。",
		},
		timeSlot:        domain.SlotAfternoon,
		durationMinutes: 90,
		intensity:       domain.IntensityLow,
		planB: localized{
			"Informal tea appreciation session available as alternative.",
			"代替として、非公式のお茶の鑑賞会が利用可能です。",
		},
	},
}

var blockNotes = localized{
	"Specific locations will be provided upon booking confirmation.",
	"具体的な場所は予約確定後にご案内いたします。",
}

// pickTemplate returns the first template matching pillar and slot, else the
// first matching slot, else the first template.
func pickTemplate(pillar domain.Pillar, slot domain.TimeSlot) blockTemplate {
	for _, t := range blockTemplates {
		if t.pillar == pillar && t.timeSlot == slot {
			return t
		}
	}
	for _, t := range blockTemplates {
		if t.timeSlot == slot {
			return t
		}
	}
	return blockTemplates[0]
}
