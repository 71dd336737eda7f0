package analyzer

import "strings"

// Keyword sets are matched as case-insensitive substrings, so "pain" also hits "painful".
var (
	anxietyKeywords = []string{
		"worried", "concerned", "anxious", "nervous", "fear", "afraid",
		"scared", "stress", "distress", "pain", "hurt", "unsure", "future",
	}

	reassuranceKeywords = []string{
		"relief", "better", "improving", "good", "great", "positive", "recover",
		"recovery", "progress", "fine", "okay", "ok", "hope", "encouraged",
	}

	symptomKeywords = []string{
		"pain", "ache", "sore", "discomfort", "stiff", "tender",
		"hurt", "sensation", "feeling", "headache", "migraine", "nausea",
	}

	bodyParts = []string{
		"back", "neck", "head", "arm", "leg", "knee", "shoulder",
		"wrist", "ankle", "hip", "spine", "muscle", "joint",
	}

	keyAnxietyWords     = []string{"worried", "concern", "fear", "afraid"}
	keyReassuranceWords = []string{"better", "good", "fine", "relief"}
	outlookWords        = []string{"will", "hope", "get", "better"}
	concernWords        = []string{"worried", "concerned", "anxious"}
	questionWords       = []string{"?", "what", "when", "how", "why", "tell"}
	improvementWords    = []string{"better", "improving", "good", "fine", "recovered"}
)

// AnalyzeSentiment classifies patient text as Anxious, Reassured or Neutral
func AnalyzeSentiment(text string) string {
	lower := strings.ToLower(text)

	anxiety := countMatches(lower, anxietyKeywords)
	reassurance := countMatches(lower, reassuranceKeywords)

	switch {
	case strings.Contains(lower, "hope") && anxiety > 0:
		// hopeful but still anxious
		return SentimentAnxious
	case anxiety > reassurance:
		return SentimentAnxious
	case reassurance > anxiety:
		return SentimentReassured
	case containsAny(lower, keyAnxietyWords):
		return SentimentAnxious
	case containsAny(lower, keyReassuranceWords):
		return SentimentReassured
	default:
		return SentimentNeutral
	}
}

// DetectIntent returns the primary intent of patient text.
// Reporting symptoms is both the first rule and the fallback.
func DetectIntent(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, symptomKeywords) && containsAny(lower, bodyParts):
		return IntentReportingSymptoms
	case containsAny(lower, outlookWords) && containsAny(lower, anxietyKeywords):
		return IntentSeekingReassurance
	case containsAny(lower, concernWords):
		return IntentExpressingConcern
	case containsAny(lower, questionWords):
		return IntentRequestingInformation
	case containsAny(lower, improvementWords):
		return IntentAcknowledgeImprovement
	default:
		return IntentReportingSymptoms
	}
}

// AnalyzeUtterance runs both classifiers over one patient utterance
func AnalyzeUtterance(text string) Analysis {
	return Analysis{
		Sentiment: AnalyzeSentiment(text),
		Intent:    DetectIntent(text),
	}
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
