package service

import "errors"

var (
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidSurvey      = errors.New("invalid survey")
	ErrSurveyNotPublished = errors.New("survey is not accepting responses")
	ErrInvalidResponse    = errors.New("invalid response")
	ErrAnalysisInProgress = errors.New("analysis already running for this survey")

	// ErrUpstream wraps embedding and generation failures
	ErrUpstream = errors.New("model service failed")
)
