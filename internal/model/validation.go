package model

// Symbols shown next to a validation verdict
const (
	SymbolValid   = "[VALID]"
	SymbolInvalid = "[INVALID]"
	SymbolSkipped = "[SKIPPED]"
)

// Validation is the second LLM's verdict on an Analysis
type Validation struct {
	IsValid              bool     `json:"is_valid"`
	Symbol               string   `json:"validation_symbol"` // Derived from IsValid, never taken from the LLM
	Justification        string   `json:"justification"`
	SuggestedCorrections []string `json:"suggested_corrections"`
}

// NewValidation builds a verdict and derives its symbol
func NewValidation(isValid bool, justification string, corrections []string) Validation {
	if corrections == nil {
		corrections = []string{}
	}
	symbol := SymbolInvalid
	if isValid {
		symbol = SymbolValid
	}
	return Validation{
		IsValid:              isValid,
		Symbol:               symbol,
		Justification:        justification,
		SuggestedCorrections: corrections,
	}
}

// SkippedValidation is the fixed verdict used when no validation was attempted
func SkippedValidation(justification string) Validation {
	if justification == "" {
		justification = "Analysis was not performed"
	}
	return Validation{
		IsValid:              false,
		Symbol:               SymbolSkipped,
		Justification:        justification,
		SuggestedCorrections: []string{},
	}
}

// ValidationStatus tags the outcome of a validation attempt
type ValidationStatus string

const (
	ValidationCompleted ValidationStatus = "completed" // LLM returned a usable verdict
	ValidationSkipped   ValidationStatus = "skipped"   // No LLM call was attempted
	ValidationFailed    ValidationStatus = "failed"    // LLM call attempted, reply unusable
)

// ValidationResult is a completed verdict, a skip, or a failure reason
type ValidationResult struct {
	Status     ValidationStatus `json:"status"`
	Validation *Validation      `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// ValidationOK wraps a completed verdict
func ValidationOK(v Validation) *ValidationResult {
	return &ValidationResult{Status: ValidationCompleted, Validation: &v}
}

// ValidationSkip records that validation was not attempted
func ValidationSkip(reason string) *ValidationResult {
	v := SkippedValidation(reason)
	return &ValidationResult{Status: ValidationSkipped, Validation: &v}
}

// ValidationError records a failed validation attempt
func ValidationError(reason string) *ValidationResult {
	return &ValidationResult{Status: ValidationFailed, Error: reason}
}

// Completed reports whether r holds an LLM verdict
func (r *ValidationResult) Completed() bool {
	return r != nil && r.Status == ValidationCompleted && r.Validation != nil
}

// Skipped reports whether validation was never attempted. A nil result counts as skipped.
func (r *ValidationResult) Skipped() bool {
	return r == nil || r.Status == ValidationSkipped
}
