package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrScreenshotNotFound = errors.New("screenshot not found")
	ErrAccessDenied       = errors.New("session belongs to another user")
	ErrNoScreenshots      = errors.New("session has no screenshots")
	ErrNotConfigured      = errors.New("service is not configured")
)
