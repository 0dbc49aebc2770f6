package analysis

import (
	"fmt"
	"strings"
)

// Prompt sample limits
const (
	ClusterSampleSize = 40
	GlobalSampleSize  = 200
)

// ClusterPrompt asks for a short summary of one cluster of answers.
// At most sampleSize answers are included; sampleSize <= 0 means ClusterSampleSize.
func ClusterPrompt(question string, answers []string, sampleSize int) string {
	if sampleSize <= 0 {
		sampleSize = ClusterSampleSize
	}
	sample := bullets(head(answers, sampleSize))
	if sample == "" {
		sample = "- (empty)"
	}

	return fmt.Sprintf(`You are a survey analyst. Write a short summary of this cluster of answers (3–6 sentences).
Question: "%s"
Sample answers (up to %d):
%s`, question, sampleSize, sample)
}

// QuestionPrompt asks for consolidated insights over the cluster summaries of a question
func QuestionPrompt(question string, clusterSummaries []string, totalAnswers int) string {
	clusters := "(no clusters)"
	if len(clusterSummaries) > 0 {
		lines := make([]string, len(clusterSummaries))
		for i, s := range clusterSummaries {
			lines[i] = fmt.Sprintf("Cluster %d: %s", i+1, s)
		}
		clusters = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are a survey analyst. Write a consolidated conclusion for the question based on the cluster summaries.
Question: "%s"
Number of answers: %d
Cluster summaries:
%s

Format: 5–8 key insights (bullets), followed by 3–5 recommended actions.`, question, totalAnswers, clusters)
}

// GlobalLine tags one free-text answer with its source question
func GlobalLine(question, answer string) string {
	return fmt.Sprintf("- [%s] %s", question, answer)
}

// GlobalPrompt asks for a survey-wide summary over lines built with GlobalLine.
// Only the first sampleSize lines are included; sampleSize <= 0 means GlobalSampleSize.
func GlobalPrompt(lines []string, sampleSize int) string {
	if sampleSize <= 0 {
		sampleSize = GlobalSampleSize
	}

	return fmt.Sprintf(`You are a survey analyst. The input is a set of up to %d answers in the format "- [Question] Answer".
Produce:
1) 7–10 key insights (bullets),
2) 3–5 trends,
3) Executive Summary (at most 10 sentences),
4) 3–7 concrete actions or recommendations.

Answers:
%s`, sampleSize, strings.Join(head(lines, sampleSize), "\n"))
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n")
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
