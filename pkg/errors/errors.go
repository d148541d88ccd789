package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeSearch represents product search API errors
	ErrorTypeSearch ErrorType = "search"
	// ErrorTypeData represents invalid or missing price data
	ErrorTypeData ErrorType = "data"
	// ErrorTypePublish represents social publishing errors
	ErrorTypePublish ErrorType = "publish"
	// ErrorTypeHistory represents post history persistence errors
	ErrorTypeHistory ErrorType = "history"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// FinderError represents an application-specific error
type FinderError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *FinderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *FinderError) Unwrap() error {
	return e.Err
}

// New creates a new FinderError
func New(errType ErrorType, component, message string, err error) *FinderError {
	return &FinderError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewSearch creates a new search error
func NewSearch(component, message string, err error) *FinderError {
	return New(ErrorTypeSearch, component, message, err)
}

// NewData creates a new price data error
func NewData(component, message string) *FinderError {
	return New(ErrorTypeData, component, message, nil)
}

// NewPublish creates a new publish error
func NewPublish(platform, message string, err error) *FinderError {
	return New(ErrorTypePublish, platform, message, err)
}

// NewHistory creates a new history error
func NewHistory(message string, err error) *FinderError {
	return New(ErrorTypeHistory, "history", message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *FinderError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *FinderError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the ErrorType of err, or an empty string for plain errors
func TypeOf(err error) ErrorType {
	var fe *FinderError
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ""
}

// IsData reports whether err is a price data error
func IsData(err error) bool {
	return TypeOf(err) == ErrorTypeData
}

// IsRateLimit reports whether err is a rate limit error
func IsRateLimit(err error) bool {
	return TypeOf(err) == ErrorTypeRateLimit
}
