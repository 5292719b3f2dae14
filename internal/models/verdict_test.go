package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVerdict(t *testing.T) {
	verdict := NewVerdict()

	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.Errors)
	assert.Empty(t, verdict.Warnings)
	assert.Equal(t, 1.0, verdict.Confidence)
}

func TestVerdict_AddError(t *testing.T) {
	verdict := NewVerdict()

	verdict.AddError("amount is missing")
	verdict.AddError("vendor is missing")

	assert.False(t, verdict.Valid)
	assert.Equal(t, []string{"amount is missing", "vendor is missing"}, verdict.Errors)
}

func TestVerdict_AddWarning_KeepsValidity(t *testing.T) {
	verdict := NewVerdict()

	verdict.AddWarning("date is missing")

	assert.True(t, verdict.Valid)
	assert.Equal(t, []string{"date is missing"}, verdict.Warnings)
	assert.Equal(t, 1.0, verdict.Confidence)
}

func TestVerdict_Penalize(t *testing.T) {
	verdict := NewVerdict()

	verdict.Penalize(0.3)
	assert.InDelta(t, 0.7, verdict.Confidence, 1e-9)

	verdict.Penalize(0.5)
	assert.InDelta(t, 0.2, verdict.Confidence, 1e-9)
}

func TestVerdict_Penalize_FloorsAtZero(t *testing.T) {
	verdict := NewVerdict()

	verdict.Penalize(0.8)
	verdict.Penalize(0.8)

	assert.Equal(t, 0.0, verdict.Confidence)
}
