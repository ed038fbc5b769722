package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Session and token generation errors
	ErrGeneration     = fmt.Errorf("token generation failed")
	ErrEngineNotReady = fmt.Errorf("token engine unavailable")
	ErrTokenExpired   = fmt.Errorf("access token expired")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API and upstream errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFoundOrPrivate  = fmt.Errorf("resource not found or private")
	ErrUpstream           = fmt.Errorf("upstream request failed")
	ErrLyricsUnavailable  = fmt.Errorf("lyrics unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
