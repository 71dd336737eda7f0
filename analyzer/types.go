package analyzer

// AnalysisRequest is the body accepted by POST /analyze
type AnalysisRequest struct {
	Transcript string `json:"transcript"`
}

// Analysis is the sentiment/intent pair produced for one utterance or a whole conversation
type Analysis struct {
	Sentiment string `json:"Sentiment"`
	Intent    string `json:"Intent"`
}

// UtteranceAnalysis pairs a single patient utterance with its analysis
type UtteranceAnalysis struct {
	Utterance string   `json:"Utterance"`
	Analysis  Analysis `json:"Analysis"`
}

// AnalysisResponse is the body returned by POST /analyze.
// Utterance_Analyses keeps the order in which utterances appear in the transcript.
type AnalysisResponse struct {
	OverallAnalysis   Analysis            `json:"Overall_Analysis"`
	UtteranceAnalyses []UtteranceAnalysis `json:"Utterance_Analyses"`
}

const (
	SentimentAnxious   = "Anxious"
	SentimentNeutral   = "Neutral"
	SentimentReassured = "Reassured"

	IntentSeekingReassurance     = "Seeking reassurance"
	IntentReportingSymptoms      = "Reporting symptoms"
	IntentExpressingConcern      = "Expressing concern"
	IntentRequestingInformation  = "Requesting information"
	IntentAcknowledgeImprovement = "Acknowledging improvement"
)
