package models

// Verdict carries the outcome of validating one record. Errors block the
// record from downstream use; warnings are advisory. Confidence starts at
// 1.0 and only ever decreases as problems accumulate.
type Verdict struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Confidence float64  `json:"confidence"`
}

// NewVerdict returns a passing verdict with full confidence.
func NewVerdict() Verdict {
	return Verdict{Valid: true, Confidence: 1.0}
}

// AddError records a blocking problem and marks the verdict invalid.
func (v *Verdict) AddError(msg string) {
	v.Valid = false
	v.Errors = append(v.Errors, msg)
}

// AddWarning records an advisory problem. Validity is unaffected.
func (v *Verdict) AddWarning(msg string) {
	v.Warnings = append(v.Warnings, msg)
}

// Penalize lowers the confidence score, flooring at zero.
func (v *Verdict) Penalize(amount float64) {
	v.Confidence -= amount
	if v.Confidence < 0 {
		v.Confidence = 0
	}
}
