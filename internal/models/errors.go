package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound         = errors.New("resource not found") // General not found
	ErrStepNotFound     = errors.New("scenario step not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrProgressNotFound = errors.New("player progress not found")

	// Content Errors
	ErrContentIntegrity = errors.New("scenario content integrity violation")

	// Auth Errors
	ErrUnauthorized   = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden      = errors.New("forbidden")    // Authenticated, but lacks permission
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Progress Errors
	ErrProgressConflict = errors.New("player position changed concurrently")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
)
