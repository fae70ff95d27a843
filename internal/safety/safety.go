// Package safety classifies free-text user input for self-harm risk and
// medical-advice seeking. Every function here is pure and safe to call from
// any goroutine.
package safety

import (
	"strings"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

var selfHarmKeywordsEN = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"hurt myself",
	"self harm",
	"self-harm",
	"want to die",
	"better off dead",
	"no reason to live",
}

var selfHarmKeywordsJA = []string{
	"自殺",
	"死にたい",
	"自傷",
	"命を絶つ",
	"生きる意味",
}

var medicalKeywordsEN = []string{
	"diagnose",
	"diagnosis",
	"disease",
	"illness",
	"medical condition",
	"symptoms",
	"treatment",
	"cure",
	"medication",
	"prescription",
	"doctor",
	"therapy",
	"clinical",
	"disorder",
}

var medicalKeywordsJA = []string{
	"診断",
	"病気",
	"疾患",
	"症状",
	"治療",
	"薬",
	"処方",
	"医師",
	"医者",
	"障害",
}

const emergencyMessageEN = `I notice you may be experiencing distress. Your safety is the most important thing right now.

If you're in immediate danger or having thoughts of self-harm, please reach out to emergency services or a crisis helpline immediately:

**International Crisis Resources:**
- International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/
- Crisis Text Line (US): Text HOME to 741741
- Samaritans (UK/Ireland): 116 123

**Japan Crisis Resources:**
- TELL Lifeline: 03-5774-0992 (9am-11pm daily)
- Inochi no Denwa (Japanese): 0570-783-556 (24/7)

We're here to help you plan a comfortable wellness journey when you're ready, but professional support should be your first priority right now.`

const emergencyMessageJA = `あなたが苦しんでいることに気づきました。今はあなたの安全が最も重要です。

すぐに危険がある場合や自傷の考えがある場合は、すぐに緊急サービスまたは危機相談窓口に連絡してください：

**日本の危機対応リソース：**
- よりそいホットライン: 0120-279-338（24時間対応）
- いのちの電話: 0570-783-556（24時間対応）
- TELL ライフライン: 03-5774-0992（毎日9:00-23:00）

**国際的な危機対応リソース：**
- International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/

準備ができたら、快適なウェルネス旅行の計画をお手伝いしますが、今は専門家のサポートを優先してください。`

const (
	disclaimerEN = "RIJ is not a medical service and does not provide medical advice, diagnosis, or treatment. If you have health concerns, please consult with a qualified healthcare professional. We focus on comfort-oriented travel planning for wellness experiences."
	disclaimerJA = "RIJは医療サービスを提供するものではなく、医学的アドバイスや診断、治療の代わりにはなりません。健康上の懸念がある場合は、資格のある医療専門家にご相談ください。快適さとウェルネスに焦点を当てた旅行計画をお手伝いします。"

	comfortRedirectEN = "Could we talk about experiences that might help you feel more relaxed and comfortable? For example, hot springs, meditation, or time in nature."
	comfortRedirectJA = "リラックスや快適さを高める体験についてお話しできますか？例えば、温泉、瞑想、自然の中での時間などです。"
)

// Japanese sessions are checked against the English lists as well.
func keywords(en, ja []string, locale domain.Locale) []string {
	if locale != domain.LocaleJA {
		return en
	}
	out := make([]string, 0, len(en)+len(ja))
	out = append(out, en...)
	return append(out, ja...)
}

func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// EmergencyMessage returns the crisis-resource message shown when a
// conversation is halted.
func EmergencyMessage(locale domain.Locale) string {
	if locale == domain.LocaleJA {
		return emergencyMessageJA
	}
	return emergencyMessageEN
}

// DetectFlags classifies text. Self-harm is checked first and is exclusive:
// when it matches, the medical flag is never reported alongside it.
func DetectFlags(text string, locale domain.Locale) domain.SafetyCheckResult {
	if containsAny(text, keywords(selfHarmKeywordsEN, selfHarmKeywordsJA, locale)) {
		return domain.SafetyCheckResult{
			Flags:            []domain.SafetyFlag{domain.FlagSelfHarm},
			ShouldStop:       true,
			EmergencyMessage: EmergencyMessage(locale),
		}
	}
	if containsAny(text, keywords(medicalKeywordsEN, medicalKeywordsJA, locale)) {
		return domain.SafetyCheckResult{Flags: []domain.SafetyFlag{domain.FlagMedicalRequest}}
	}
	return domain.SafetyCheckResult{Flags: []domain.SafetyFlag{domain.FlagNone}}
}

// ShouldStop reports whether the conversation must be halted.
func ShouldStop(result domain.SafetyCheckResult) bool {
	return result.ShouldStop
}

// MedicalDisclaimer returns the "not a medical service" notice.
func MedicalDisclaimer(locale domain.Locale) string {
	if locale == domain.LocaleJA {
		return disclaimerJA
	}
	return disclaimerEN
}

// ComfortFocusedResponse returns the disclaimer followed by a redirect to
// comfort topics when text is a medical request, and "" otherwise.
func ComfortFocusedResponse(text string, locale domain.Locale) string {
	if !DetectFlags(text, locale).Has(domain.FlagMedicalRequest) {
		return ""
	}
	redirect := comfortRedirectEN
	if locale == domain.LocaleJA {
		redirect = comfortRedirectJA
	}
	return MedicalDisclaimer(locale) + "\n\n" + redirect
}
