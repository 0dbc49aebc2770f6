package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"surveylens/internal/analysis"
	"surveylens/internal/config"
	"surveylens/internal/llm"
	"surveylens/internal/model"
	"surveylens/internal/repository"
)

// AnalysisService runs the analysis pipeline over one survey.
// It processes questions strictly in order and makes one external call at a time.
// It does not coordinate concurrent runs on the same survey; see ReportService.
type AnalysisService struct {
	store       repository.AnalysisStore
	embedder    llm.Embedder
	generator   llm.Generator
	cfg         *config.AnalysisConfig
	broadcaster Broadcaster
	now         func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(store repository.AnalysisStore, embedder llm.Embedder, generator llm.Generator, cfg *config.AnalysisConfig) *AnalysisService {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	return &AnalysisService{
		store:     store,
		embedder:  embedder,
		generator: generator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetBroadcaster sets the broadcaster for per-question progress events
func (s *AnalysisService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Analyze recomputes every summary of the survey.
// An embedding or generation failure aborts the run; summaries already
// written by this run stay in place and a rerun overwrites them.
func (s *AnalysisService) Analyze(ctx context.Context, surveyID string) (*model.AnalysisRun, error) {
	run := &model.AnalysisRun{
		SurveyID:  surveyID,
		Questions: []model.QuestionRun{},
		StartedAt: s.now(),
	}

	questions, err := s.store.ListQuestionsWithAnswers(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	for i := range questions {
		q := &questions[i]

		var qr model.QuestionRun
		if q.Type.IsText() {
			qr, err = s.analyzeText(ctx, surveyID, q)
		} else {
			qr, err = s.analyzeStructured(ctx, surveyID, q)
		}
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}

		run.Questions = append(run.Questions, qr)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToHost(surveyID, MsgQuestionAnalyzed, qr)
		}
	}

	run.GlobalMode, err = s.analyzeGlobal(ctx, surveyID, questions)
	if err != nil {
		return nil, fmt.Errorf("global summary: %w", err)
	}

	run.FinishedAt = s.now()
	log.Printf("analysis: survey %s done: %d questions, global=%s", surveyID, len(run.Questions), run.GlobalMode)
	return run, nil
}

func (s *AnalysisService) analyzeText(ctx context.Context, surveyID string, q *model.Question) (model.QuestionRun, error) {
	qr := model.QuestionRun{QuestionID: q.ID, Type: q.Type, Outcome: model.OutcomeSkipped}

	texts := textAnswers(q.Answers)
	if err := s.store.DeleteSummary(ctx, surveyID, model.ScopePerQuestion, q.ID); err != nil {
		return qr, err
	}
	if len(texts) == 0 {
		return qr, nil
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return qr, fmt.Errorf("embed: %w: %w", ErrUpstream, err)
	}
	if len(vectors) != len(texts) {
		return qr, fmt.Errorf("embed: got %d vectors for %d texts: %w: %w", len(vectors), len(texts), ErrUpstream, llm.ErrEmbeddingCount)
	}

	k := analysis.ClusterCount(len(texts), s.cfg.AnswersPerCluster, s.cfg.MaxClusters)
	clustering, err := analysis.KMeansN(vectors, k, s.cfg.KMeansIterations)
	if err != nil {
		return qr, fmt.Errorf("cluster: %w", err)
	}

	groups := analysis.Groups(clustering, texts)
	clusterSummaries := make([]string, 0, len(groups))
	for _, group := range groups {
		summary, err := s.generator.Generate(ctx, analysis.ClusterPrompt(q.Text, group, s.cfg.ClusterSampleSize))
		if err != nil {
			return qr, fmt.Errorf("cluster summary: %w: %w", ErrUpstream, err)
		}
		clusterSummaries = append(clusterSummaries, summary)
	}

	content, err := s.generator.Generate(ctx, analysis.QuestionPrompt(q.Text, clusterSummaries, len(texts)))
	if err != nil {
		return qr, fmt.Errorf("question summary: %w: %w", ErrUpstream, err)
	}

	err = s.store.ReplaceSummary(ctx, &model.Summary{
		SurveyID: surveyID,
		Scope:    model.ScopePerQuestion,
		TargetID: q.ID,
		Content:  content,
		Meta: model.SummaryMeta{
			Mode:         model.ModeClusters,
			Type:         q.Type,
			Clusters:     clusterSummaries,
			TotalAnswers: len(texts),
		},
		Model:     s.generator.Model(),
		CreatedAt: s.now(),
	})
	if err != nil {
		return qr, err
	}

	log.Printf("analysis: survey %s question %s: %d answers, %d clusters", surveyID, q.ID, len(texts), len(groups))
	qr.Outcome = model.OutcomeClustered
	qr.Answers = len(texts)
	qr.Clusters = len(groups)
	return qr, nil
}

func (s *AnalysisService) analyzeStructured(ctx context.Context, surveyID string, q *model.Question) (model.QuestionRun, error) {
	qr := model.QuestionRun{QuestionID: q.ID, Type: q.Type, Outcome: model.OutcomeSkipped}

	obs := analysis.Flatten(q.Answers)
	if err := s.store.DeleteSummary(ctx, surveyID, model.ScopePerQuestion, q.ID); err != nil {
		return qr, err
	}
	if obs.Total() == 0 {
		return qr, nil
	}

	report := analysis.QuestionReport(*q, obs, s.cfg.TopN)
	err := s.store.ReplaceSummary(ctx, &model.Summary{
		SurveyID: surveyID,
		Scope:    model.ScopePerQuestion,
		TargetID: q.ID,
		Content:  report.Content,
		Meta: model.SummaryMeta{
			Mode:        model.ModeStats,
			Type:        q.Type,
			Frequencies: report.Frequencies,
			Total:       report.Total,
			ScaleStats:  report.Scale,
		},
		Model:     model.StatsModelTag,
		CreatedAt: s.now(),
	})
	if err != nil {
		return qr, err
	}

	qr.Outcome = model.OutcomeStats
	qr.Answers = report.Total
	return qr, nil
}

// analyzeGlobal writes the survey-wide summary and returns its mode
func (s *AnalysisService) analyzeGlobal(ctx context.Context, surveyID string, questions []model.Question) (string, error) {
	var lines []string
	for _, q := range questions {
		for _, t := range textAnswers(q.Answers) {
			lines = append(lines, analysis.GlobalLine(q.Text, t))
		}
	}

	if err := s.store.DeleteSummary(ctx, surveyID, model.ScopeSurveyGlobal, ""); err != nil {
		return "", err
	}

	if len(lines) > 0 {
		content, err := s.generator.Generate(ctx, analysis.GlobalPrompt(lines, s.cfg.GlobalSampleSize))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		err = s.store.ReplaceSummary(ctx, &model.Summary{
			SurveyID: surveyID,
			Scope:    model.ScopeSurveyGlobal,
			Content:  content,
			Meta: model.SummaryMeta{
				Mode:             model.ModeGlobal,
				TotalTextAnswers: len(lines),
			},
			Model:     s.generator.Model(),
			CreatedAt: s.now(),
		})
		return model.ModeGlobal, err
	}

	err := s.store.ReplaceSummary(ctx, &model.Summary{
		SurveyID:  surveyID,
		Scope:     model.ScopeSurveyGlobal,
		Content:   s.fallbackContent(questions),
		Meta:      model.SummaryMeta{Mode: model.ModeFallbackGlobal},
		Model:     model.StatsModelTag,
		CreatedAt: s.now(),
	})
	return model.ModeFallbackGlobal, err
}

// fallbackContent lists one stat line per structured question, including unanswered ones
func (s *AnalysisService) fallbackContent(questions []model.Question) string {
	var lines []string
	for _, q := range questions {
		if q.Type.IsText() {
			continue
		}
		lines = append(lines, analysis.FallbackLine(q, analysis.Flatten(q.Answers), s.cfg.FallbackTopN))
	}

	body := "No answers to analyze."
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	return "Global summary (no free-text answers):\n" + body
}

// textAnswers returns trimmed, non-empty free-text values in order
func textAnswers(answers []model.Answer) []string {
	var out []string
	for _, a := range answers {
		if t := strings.TrimSpace(a.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
