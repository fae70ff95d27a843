package provider

import "github.com/boddenberg/rij-wellness-bfa/internal/domain"

const (
	closingEN = "Wonderful! I'm creating your wellness itinerary now. I'll focus on experiences that prioritize comfort and balance."
	closingJA = "素晴らしいです！あなたのウェルネスの旅程を作成しています。快適さとバランスを重視した体験をご提案します。"
)

func closingMessage(locale domain.Locale) string {
	if locale == domain.LocaleJA {
		return closingJA
	}
	return closingEN
}

// questionFor returns the canonical question asked on entering phase.
func questionFor(phase domain.Phase, locale domain.Locale) string {
	en, ja := questions(phase)
	if locale == domain.LocaleJA {
		return ja
	}
	return en
}

func questions(phase domain.Phase) (en, ja string) {
	switch phase {
	case domain.PhaseState:
		return "How have you been feeling lately? What brings you to explore wellness travel in Japan?",
			"最近どのようにお過ごしですか？日本でのウェルネス旅行を探求しようと思ったきっかけは何ですか？"
	case domain.PhaseBody:
		return "Tell me about your physical needs. Are there any activities you particularly enjoy or would like to avoid?",
			"身体的なニーズについて教えてください。特に楽しんでいる活動や避けたい活動はありますか？"
	case domain.PhaseSocial:
		return "Will you be traveling alone, or with companions? How do you prefer to spend your time with others?",
			"一人で旅行しますか、それとも同行者と一緒ですか？他の人とどのように時間を過ごすのが好きですか？"
	case domain.PhaseSensory:
		return "What kinds of experiences resonate with you? Do you prefer quiet contemplation, nature immersion, or cultural activities?",
			"どのような体験があなたに響きますか？静かな瞑想、自然への没入、それとも文化的な活動を好みますか？"
	case domain.PhaseConstraints:
		return "Do you have any time or budget considerations I should know about? Any specific dates in mind?",
			"考慮すべき時間や予算の制約はありますか？具体的な日程の希望はありますか？"
	case domain.PhaseRecap:
		return "Let me summarize what we've discussed. You're looking for a wellness journey that helps you find balance and comfort. Does this sound right?",
			"これまでお話しした内容をまとめさせてください。バランスと快適さを見つけるウェルネスの旅をお探しですね。これで合っていますか？"
	case domain.PhaseDone:
		return "Thank you for sharing. I'm ready to create a personalized wellness itinerary for you.",
			"共有していただきありがとうございます。あなたのためにパーソナライズされたウェルネス旅程を作成する準備ができました。"
	}
	return "", ""
}
