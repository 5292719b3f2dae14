package extractor

import (
	"context"
	"encoding/json"
	"testing"

	"fjacquet/receipt-processor/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAmount(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "amount = %s, want %s", got, want)
}

func TestNewGeminiClient_MissingAPIKey(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), "", "", &logging.MockLogger{})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestParseResponse_JSON(t *testing.T) {
	mockLog := &logging.MockLogger{}
	client := &GeminiClient{log: mockLog}

	response := `{"vendor": "Starbucks", "amount": 12.50, "date": "2024-01-15", "items": ["latte", "muffin"], "confidence": 0.92}`
	record := client.parseResponse(response, "STARBUCKS STORE #1234")

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Starbucks", record.Vendor)
	assertAmount(t, "12.50", record.Amount)
	assert.Equal(t, "2024-01-15", record.Date)
	assert.Equal(t, []string{"latte", "muffin"}, record.Items)
	assert.Equal(t, "STARBUCKS STORE #1234", record.Text)
	assert.Equal(t, 0.92, record.Confidence)
	assert.Empty(t, mockLog.GetEntriesByLevel("WARN"))
}

func TestParseResponse_FencedJSON(t *testing.T) {
	client := &GeminiClient{log: &logging.MockLogger{}}

	response := "Here is the extracted data:\n```json\n{\"vendor\": \"Shell\", \"amount\": 60.00, \"date\": \"2024-02-01\", \"confidence\": 0.88}\n```\nLet me know if you need anything else."
	record := client.parseResponse(response, "SHELL OIL 574")

	assert.Equal(t, "Shell", record.Vendor)
	assertAmount(t, "60.00", record.Amount)
	assert.Equal(t, 0.88, record.Confidence)
}

func TestParseResponse_MalformedJSONFallsBack(t *testing.T) {
	mockLog := &logging.MockLogger{}
	client := &GeminiClient{log: mockLog}

	response := "{not valid json}\nvendor: Uber Eats\ntotal: $23.45"
	record := client.parseResponse(response, "UBER EATS ORDER")

	assert.True(t, mockLog.HasEntry("WARN", "Malformed JSON in model response, using fallback parsing"))
	assert.Equal(t, "uber eats", record.Vendor)
	assertAmount(t, "23.45", record.Amount)
	assert.Equal(t, "UBER EATS ORDER", record.Text)
	assert.Equal(t, fallbackConfidence, record.Confidence)
}

func TestParseResponse_NoJSONFallsBack(t *testing.T) {
	mockLog := &logging.MockLogger{}
	client := &GeminiClient{log: mockLog}

	response := "I could not find structured data.\nBusiness: Shell Gas Station\nAmount due $60"
	record := client.parseResponse(response, "SHELL OIL 574")

	assert.True(t, mockLog.HasEntry("WARN", "No JSON object in model response, using fallback parsing"))
	assert.Equal(t, "shell gas station", record.Vendor)
	assertAmount(t, "60", record.Amount)
	assert.Equal(t, fallbackConfidence, record.Confidence)
}

func TestFallbackParse(t *testing.T) {
	record := fallbackParse("Vendor: \"Blue Bottle Coffee\"\nTotal: $4.50", "receipt text")

	// Line scraping lowercases before matching, so the vendor comes back
	// lowercased as well.
	assert.Equal(t, "blue bottle coffee", record.Vendor)
	assertAmount(t, "4.50", record.Amount)
	assert.Equal(t, "", record.Date)
	assert.Equal(t, "receipt text", record.Text)
	assert.Equal(t, fallbackConfidence, record.Confidence)
}

func TestFallbackParse_LastMatchWins(t *testing.T) {
	record := fallbackParse("Subtotal: $10.00\nTotal: $12.75", "receipt text")

	assertAmount(t, "12.75", record.Amount)
}

func TestFallbackParse_NothingUsable(t *testing.T) {
	record := fallbackParse("no structured information here", "raw text")

	assert.Equal(t, "", record.Vendor)
	assert.Nil(t, record.Amount)
	assert.Equal(t, "raw text", record.Text)
	assert.Equal(t, fallbackConfidence, record.Confidence)
}

func TestToRecord_Defaults(t *testing.T) {
	record := wireRecord{Vendor: "Staples"}.toRecord("OCR TEXT")

	assert.Equal(t, "Staples", record.Vendor)
	assert.Nil(t, record.Amount)
	assert.Equal(t, "OCR TEXT", record.Text)
	assert.Equal(t, defaultConfidence, record.Confidence)
}

func TestToRecord_OwnTextWins(t *testing.T) {
	record := wireRecord{Vendor: "Staples", Text: "embedded text"}.toRecord("fallback text")

	assert.Equal(t, "embedded text", record.Text)
}

func TestToRecord_StringValues(t *testing.T) {
	record := wireRecord{Vendor: "Delta", Amount: "$450.00", Confidence: "0.85"}.toRecord("")

	assertAmount(t, "450.00", record.Amount)
	assert.Equal(t, 0.85, record.Confidence)
}

func TestSafeDecimal(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
		wantNil  bool
	}{
		{name: "float64", value: 42.5, expected: "42.5"},
		{name: "json number", value: json.Number("19.99"), expected: "19.99"},
		{name: "plain string", value: "12.00", expected: "12.00"},
		{name: "dollar prefixed string", value: "$89.90", expected: "89.90"},
		{name: "dollar with spaces", value: " $ 12.50 ", expected: "12.50"},
		{name: "non-numeric string", value: "abc", wantNil: true},
		{name: "empty string", value: "", wantNil: true},
		{name: "nil", value: nil, wantNil: true},
		{name: "bool", value: true, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := safeDecimal(tt.value)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assertAmount(t, tt.expected, got)
		})
	}
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected float64
		ok       bool
	}{
		{name: "float64", value: 0.9, expected: 0.9, ok: true},
		{name: "json number", value: json.Number("0.75"), expected: 0.75, ok: true},
		{name: "string", value: "0.85", expected: 0.85, ok: true},
		{name: "padded string", value: " 0.6 ", expected: 0.6, ok: true},
		{name: "non-numeric string", value: "high", ok: false},
		{name: "nil", value: nil, ok: false},
		{name: "int", value: 1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := safeFloat(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := buildExtractionPrompt("STARBUCKS STORE #1234\nLATTE 4.50")

	assert.Contains(t, prompt, "Analyze this receipt text")
	assert.Contains(t, prompt, "Receipt text:\nSTARBUCKS STORE #1234\nLATTE 4.50")
}

func TestBuildExtractionPrompt_BlankText(t *testing.T) {
	assert.Equal(t, extractionPrompt, buildExtractionPrompt("   \n  "))
}

func TestMockAIClient(t *testing.T) {
	mock := &MockAIClient{Record: wireRecord{Vendor: "Staples"}.toRecord("")}

	record, err := mock.ExtractRecord(context.Background(), "first text")
	require.NoError(t, err)
	assert.Equal(t, "Staples", record.Vendor)

	_, _ = mock.ExtractRecord(context.Background(), "second text")
	assert.Equal(t, []string{"first text", "second text"}, mock.Calls)
}
