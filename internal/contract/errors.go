package contract

import (
	"fmt"

	"github.com/avendano/churnscope/schema"
)

// ValidationError reports malformed or missing input data: absent required
// columns, an empty dataset, unreadable files. Validation errors are fatal
// and raised before any pipeline stage runs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports invalid configuration: weights not summing to
// 1.0, a missing action table cell, negative thresholds. Configuration
// errors are fatal and raised before any score is computed.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Msg
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Msg)
}

// NewConfigurationError builds a ConfigurationError for a config field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ComputationError reports a pipeline stage producing a NaN or undefined
// value for a single customer. These are isolated: the customer is skipped
// with a reason code and the batch continues.
type ComputationError struct {
	CustomerID string
	Reason     schema.SkipReason
	Msg        string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation: customer %s: %s (%s)", e.CustomerID, e.Msg, e.Reason)
}

// NewComputationError builds a ComputationError for a single customer.
func NewComputationError(customerID string, reason schema.SkipReason, format string, args ...any) *ComputationError {
	return &ComputationError{CustomerID: customerID, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}
