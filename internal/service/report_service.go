package service

import (
	"context"
	"log"
	"time"

	"surveylens/internal/cache"
	"surveylens/internal/model"
	"surveylens/internal/repository"
)

// Analyzer runs the analysis pipeline for one survey
type Analyzer interface {
	Analyze(ctx context.Context, surveyID string) (*model.AnalysisRun, error)
}

// ReportService guards analysis runs and serves stored summaries
type ReportService struct {
	surveyRepo  repository.SurveyRepo
	summaryRepo repository.SummaryRepo
	analyzer    Analyzer
	lock        cache.RunLock
	cache       cache.SummaryCache
	archive     repository.ReportArchive
	broadcaster Broadcaster
}

// NewReportService creates a new report service
func NewReportService(
	surveyRepo repository.SurveyRepo,
	summaryRepo repository.SummaryRepo,
	analyzer Analyzer,
	lock cache.RunLock,
	summaryCache cache.SummaryCache,
	archive repository.ReportArchive,
) *ReportService {
	if archive == nil {
		archive = repository.NewNoopArchive()
	}
	return &ReportService{
		surveyRepo:  surveyRepo,
		summaryRepo: summaryRepo,
		analyzer:    analyzer,
		lock:        lock,
		cache:       summaryCache,
		archive:     archive,
	}
}

// SetBroadcaster sets the broadcaster for run lifecycle events
func (s *ReportService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RunAnalysis checks that the caller may analyze the survey, then runs the
// pipeline under the per-survey lock. A second caller gets ErrAnalysisInProgress.
func (s *ReportService) RunAnalysis(ctx context.Context, claims *model.HostClaims, surveyID string) (*model.AnalysisRun, error) {
	if _, err := s.ownedSurvey(ctx, claims, surveyID); err != nil {
		return nil, err
	}
	if !claims.Role.CanAnalyze() {
		return nil, ErrForbidden
	}

	release, ok, err := s.lock.TryAcquire(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAnalysisInProgress
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			log.Printf("Failed to release analysis lock for %s: %v", surveyID, err)
		}
	}()

	s.broadcast(surveyID, MsgAnalysisStarted, map[string]string{"surveyId": surveyID})

	run, err := s.analyzer.Analyze(ctx, surveyID)

	// Partial runs also change stored summaries
	if cerr := s.cache.Invalidate(context.WithoutCancel(ctx), surveyID); cerr != nil {
		log.Printf("Failed to invalidate summary cache for %s: %v", surveyID, cerr)
	}

	if err != nil {
		log.Printf("Analysis failed for survey %s: %v", surveyID, err)
		s.broadcast(surveyID, MsgAnalysisFailed, map[string]string{
			"surveyId": surveyID,
			"error":    err.Error(),
		})
		return nil, err
	}

	s.archiveRun(ctx, run)
	s.broadcast(surveyID, MsgAnalysisCompleted, run)
	return run, nil
}

// GetSummaries returns the stored summaries of an owned survey
func (s *ReportService) GetSummaries(ctx context.Context, claims *model.HostClaims, surveyID string) ([]*model.Summary, error) {
	if _, err := s.ownedSurvey(ctx, claims, surveyID); err != nil {
		return nil, err
	}
	return s.summaries(ctx, surveyID)
}

func (s *ReportService) summaries(ctx context.Context, surveyID string) ([]*model.Summary, error) {
	cached, err := s.cache.Get(ctx, surveyID)
	if err != nil {
		log.Printf("Summary cache read failed for %s: %v", surveyID, err)
	}
	if cached != nil {
		return cached, nil
	}

	summaries, err := s.summaryRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []*model.Summary{}
	}

	if err := s.cache.Set(ctx, surveyID, summaries); err != nil {
		log.Printf("Summary cache write failed for %s: %v", surveyID, err)
	}
	return summaries, nil
}

func (s *ReportService) ownedSurvey(ctx context.Context, claims *model.HostClaims, surveyID string) (*model.Survey, error) {
	if claims == nil {
		return nil, ErrForbidden
	}
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.HostID != claims.HostID {
		return nil, ErrForbidden
	}
	return survey, nil
}

// archiveRun stores a copy of the finished report. Failures are logged only.
func (s *ReportService) archiveRun(ctx context.Context, run *model.AnalysisRun) {
	summaries, err := s.summaryRepo.ListBySurvey(ctx, run.SurveyID)
	if err != nil {
		log.Printf("Failed to load summaries for archive of %s: %v", run.SurveyID, err)
		return
	}
	key, err := s.archive.Archive(ctx, &repository.ArchivedReport{Run: run, Summaries: summaries})
	if err != nil {
		log.Printf("Failed to archive report for %s: %v", run.SurveyID, err)
		return
	}
	if key != "" {
		log.Printf("Archived analysis report %s", key)
	}
}

func (s *ReportService) broadcast(surveyID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToHost(surveyID, msgType, payload)
	}
}
