package domain

// Pillar is one of the seven wellness-activity categories.
type Pillar string

const (
	PillarToji        Pillar = "toji"
	PillarZen         Pillar = "zen"
	PillarShinrinyoku Pillar = "shinrinyoku"
	PillarShokuyojo   Pillar = "shokuyojo"
	PillarMatsuri     Pillar = "matsuri"
	PillarMovement    Pillar = "movement"
	PillarRest        Pillar = "rest"
)

// AllPillars lists every pillar in canonical key order. Weight ties are broken
// by this order.
var AllPillars = []Pillar{
	PillarToji,
	PillarZen,
	PillarShinrinyoku,
	PillarShokuyojo,
	PillarMatsuri,
	PillarMovement,
	PillarRest,
}

// Valid reports whether p is a known pillar.
func (p Pillar) Valid() bool {
	switch p {
	case PillarToji, PillarZen, PillarShinrinyoku, PillarShokuyojo,
		PillarMatsuri, PillarMovement, PillarRest:
		return true
	}
	return false
}

// Label returns the human-readable name of p in the given locale.
func (p Pillar) Label(locale Locale) string {
	en, ja := p.labels()
	if locale == LocaleJA {
		return ja
	}
	return en
}

func (p Pillar) labels() (en, ja string) {
	switch p {
	case PillarToji:
		return "Hot Springs", "温泉"
	case PillarZen:
		return "Zen & Meditation", "禅と瞑想"
	case PillarShinrinyoku:
		return "Forest Bathing", "森林浴"
	case PillarShokuyojo:
		return "Culinary Healing", "食養生"
	case PillarMatsuri:
		return "Cultural Festivals", "祭り"
	case PillarMovement:
		return "Movement & Yoga", "運動とヨガ"
	case PillarRest:
		return "Rest & Relaxation", "休息とリラクゼーション"
	}
	return string(p), string(p)
}

// PillarWeights maps every pillar to its normalized weight.
type PillarWeights map[Pillar]float64
