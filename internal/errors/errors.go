// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotMCPriceable      = errors.New("instrument is not priceable by Monte Carlo")
	ErrEmptyTimeline       = errors.New("timeline has no observation dates")
	ErrTimelineCollated    = errors.New("timeline already collated")
	ErrTimelineNotFrozen   = errors.New("timeline has not been collated")
	ErrUnknownSpotDynamics = errors.New("unknown spot dynamics policy")
	ErrBackwardTimeBump    = errors.New("valuation date cannot move backwards")
	ErrSaveableMismatch    = errors.New("saveable was not produced by this model")
	ErrMarketDataMissing   = errors.New("market data not found")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrRunNotFound         = errors.New("pricing run not found")
	ErrStoreClosed         = errors.New("store is closed")
)

// InstrumentError represents a per-instrument construction or valuation
// failure, identifying the offending instrument.
type InstrumentError struct {
	InstrumentID string
	Operation    string
	Err          error
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("instrument error [%s] %s: %v", e.InstrumentID, e.Operation, e.Err)
}

func (e *InstrumentError) Unwrap() error {
	return e.Err
}

// NewInstrumentError creates a new InstrumentError.
func NewInstrumentError(instrumentID, operation string, err error) *InstrumentError {
	return &InstrumentError{
		InstrumentID: instrumentID,
		Operation:    operation,
		Err:          err,
	}
}

// TimelineError represents a timeline collation or lookup failure.
type TimelineError struct {
	Reason string
	Err    error
}

func (e *TimelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("timeline error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("timeline error: %s", e.Reason)
}

func (e *TimelineError) Unwrap() error {
	return e.Err
}

// NewTimelineError creates a new TimelineError.
func NewTimelineError(reason string, err error) *TimelineError {
	return &TimelineError{Reason: reason, Err: err}
}

// ModelError represents a failure in model construction or simulation.
type ModelError struct {
	Model     string
	Operation string
	Err       error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error [%s] %s: %v", e.Model, e.Operation, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a new ModelError.
func NewModelError(model, operation string, err error) *ModelError {
	return &ModelError{Model: model, Operation: operation, Err: err}
}

// BumpError represents a rejected bump or restore call.
type BumpError struct {
	Target  string
	Kind    string
	Message string
	Err     error
}

func (e *BumpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bump error [%s] %s: %s: %v", e.Kind, e.Target, e.Message, e.Err)
	}
	return fmt.Sprintf("bump error [%s] %s: %s", e.Kind, e.Target, e.Message)
}

func (e *BumpError) Unwrap() error {
	return e.Err
}

// NewBumpError creates a new BumpError.
func NewBumpError(kind, target, message string, err error) *BumpError {
	return &BumpError{Kind: kind, Target: target, Message: message, Err: err}
}

// MarketDataError represents a missing or malformed market observable.
type MarketDataError struct {
	Observable string
	ID         string
	Message    string
}

func (e *MarketDataError) Error() string {
	return fmt.Sprintf("market data error [%s] %s: %s", e.Observable, e.ID, e.Message)
}

func (e *MarketDataError) Unwrap() error {
	return ErrMarketDataMissing
}

// NewMarketDataError creates a new MarketDataError.
func NewMarketDataError(observable, id, message string) *MarketDataError {
	return &MarketDataError{Observable: observable, ID: id, Message: message}
}

// FixingError represents a malformed fixing table input.
type FixingError struct {
	FixingID string
	Message  string
}

func (e *FixingError) Error() string {
	return fmt.Sprintf("fixing error [%s]: %s", e.FixingID, e.Message)
}

// NewFixingError creates a new FixingError.
func NewFixingError(fixingID, message string) *FixingError {
	return &FixingError{FixingID: fixingID, Message: message}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
