package analyzer

import (
	"context"
	"fmt"
	"strings"
	"transcript-sentiment/utils"

	"go.uber.org/zap"
)

const patientMarker = "Patient:"

// ExtractPatientDialogues returns the patient's lines from a speaker-labelled transcript,
// with the "Patient:" marker removed
func ExtractPatientDialogues(transcript string) []string {
	lines := strings.Split(strings.TrimSpace(transcript), "\n")
	dialogues := make([]string, 0, len(lines))

	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), patientMarker) {
			continue
		}
		dialogues = append(dialogues, strings.TrimSpace(strings.ReplaceAll(line, patientMarker, "")))
	}

	return dialogues
}

// AnalyzeConversation analyzes every patient utterance of a transcript and derives
// the overall sentiment and intent by majority
func AnalyzeConversation(transcript string) AnalysisResponse {
	dialogues := ExtractPatientDialogues(transcript)

	utterances := make([]UtteranceAnalysis, 0, len(dialogues))
	sentiments := make([]string, 0, len(dialogues))
	intents := make([]string, 0, len(dialogues))

	for _, d := range dialogues {
		a := AnalyzeUtterance(d)
		utterances = append(utterances, UtteranceAnalysis{Utterance: d, Analysis: a})
		sentiments = append(sentiments, a.Sentiment)
		intents = append(intents, a.Intent)
	}

	return AnalysisResponse{
		OverallAnalysis: Analysis{
			Sentiment: mostCommon(sentiments, SentimentNeutral),
			Intent:    mostCommon(intents, IntentReportingSymptoms),
		},
		UtteranceAnalyses: utterances,
	}
}

// AnalyzeStoredTranscript downloads a transcript object and analyzes it.
// The downloaded transcript is returned alongside the analysis.
func AnalyzeStoredTranscript(ctx context.Context, logger *zap.Logger, bucket, key string) (*AnalysisResponse, string, error) {
	logger.Info("Starting stored transcript analysis")

	data, err := utils.DownloadS3Object(ctx, bucket, key)
	if err != nil {
		logger.Error("File download failed", zap.Error(err))
		return nil, "", fmt.Errorf("failed to download transcript: %w", err)
	}
	logger.Debug("Successfully downloaded transcript", zap.Int("size_bytes", len(data)))

	transcript := string(data)
	if strings.TrimSpace(transcript) == "" {
		return nil, "", fmt.Errorf("transcript %s is empty", key)
	}

	result := AnalyzeConversation(transcript)

	logger.Info("Stored transcript analysis completed successfully",
		zap.String("sentiment", result.OverallAnalysis.Sentiment),
		zap.String("intent", result.OverallAnalysis.Intent),
		zap.Int("utterances", len(result.UtteranceAnalyses)))

	return &result, transcript, nil
}

// mostCommon returns the most frequent value, the earliest one on ties
func mostCommon(values []string, fallback string) string {
	counts := make(map[string]int, len(values))
	best, bestCount := fallback, 0
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
