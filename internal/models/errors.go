package models

import (
	"errors"
)

// Result shape errors
var (
	ErrUnknownSentiment     = errors.New("unknown sentiment label")
	ErrConfidenceOutOfRange = errors.New("confidence must be within [0,1]")
	ErrInconsistentBatch    = errors.New("inconsistent batch result")
)

// Visitor related errors
var (
	ErrVisitorNotFound = errors.New("visitor not found")
)

// Analysis related errors
var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInvalidAnalysis  = errors.New("analysis has no result")
)
