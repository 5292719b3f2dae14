package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash-exp"

const (
	defaultConfidence  = 0.5
	fallbackConfidence = 0.3
)

const extractionPrompt = `Analyze this receipt text and extract the following information in JSON format:

{
    "vendor": "Name of the business/vendor",
    "amount": 0.00,
    "date": "YYYY-MM-DD",
    "items": ["item1", "item2"],
    "confidence": 0.95
}

Guidelines:
- Be precise with monetary amounts
- Use standard date format (YYYY-MM-DD)
- Include all line items you can clearly read
- If information is unclear or missing, use null
- Provide a realistic confidence score between 0.0 and 1.0
- Focus on business expense data`

var amountPattern = regexp.MustCompile(`\$?(\d+\.?\d*)`)

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    logging.Logger
}

// NewGeminiClient creates a Gemini-backed extraction client. The model name
// falls back to DefaultModel when empty; a nil logger falls back to a
// default logrus adapter.
func NewGeminiClient(ctx context.Context, apiKey, model string, log logging.Logger) (*GeminiClient, error) {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Debug("Gemini extraction client initialized",
		logging.Field{Key: logging.FieldModel, Value: model},
	)
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(model),
		log:    log,
	}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ExtractRecord sends the recognized text to Gemini and parses the reply
// into a record. Transport failures are returned to the caller; a reply
// that arrives but cannot be parsed as JSON degrades to line-oriented
// scraping at low confidence instead of failing.
func (c *GeminiClient) ExtractRecord(ctx context.Context, recognized string) (models.Record, error) {
	prompt := buildExtractionPrompt(recognized)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.Record{}, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.Record{}, fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	record := c.parseResponse(responseText, recognized)

	c.log.Debug("Record extracted",
		logging.Field{Key: logging.FieldRecordID, Value: record.ID},
		logging.Field{Key: logging.FieldVendor, Value: record.Vendor},
		logging.Field{Key: logging.FieldConfidence, Value: record.Confidence},
	)
	return record, nil
}

func buildExtractionPrompt(recognized string) string {
	prompt := extractionPrompt
	if strings.TrimSpace(recognized) != "" {
		prompt += "\n\nReceipt text:\n" + recognized
	}
	return prompt
}

// parseResponse locates the outermost JSON object in the model reply and
// unmarshals it. Replies without usable JSON fall back to scraping.
func (c *GeminiClient) parseResponse(response, recognized string) models.Record {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		var wire wireRecord
		if err := json.Unmarshal([]byte(response[start:end+1]), &wire); err == nil {
			return wire.toRecord(recognized)
		}
		c.log.Warn("Malformed JSON in model response, using fallback parsing")
	} else {
		c.log.Warn("No JSON object in model response, using fallback parsing")
	}
	return fallbackParse(response, recognized)
}

// wireRecord mirrors the JSON shape the extraction prompt asks for. Amount
// and confidence are loosely typed because models sometimes quote numbers.
type wireRecord struct {
	Vendor     string      `json:"vendor"`
	Amount     interface{} `json:"amount"`
	Date       string      `json:"date"`
	Items      []string    `json:"items"`
	Text       string      `json:"text"`
	Confidence interface{} `json:"confidence"`
}

// toRecord materializes the wire form. fallbackText supplies the recognized
// text when the wire record carries none of its own.
func (w wireRecord) toRecord(fallbackText string) models.Record {
	text := w.Text
	if text == "" {
		text = fallbackText
	}

	confidence := defaultConfidence
	if f, ok := safeFloat(w.Confidence); ok {
		confidence = f
	}
	return models.NewRecord(w.Vendor, safeDecimal(w.Amount), w.Date, w.Items, text, confidence)
}

// fallbackParse scrapes vendor and amount out of a free-form reply, line by
// line. Everything it returns carries the low fallback confidence.
func fallbackParse(response, recognized string) models.Record {
	var vendor string
	var amount *decimal.Decimal

	for _, line := range strings.Split(response, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.Contains(line, "vendor") || strings.Contains(line, "business"):
			if _, value, found := strings.Cut(line, ":"); found {
				vendor = strings.Trim(strings.TrimSpace(value), `"`)
			}
		case strings.ContainsRune(line, '$') && strings.ContainsAny(line, "0123456789"):
			if m := amountPattern.FindStringSubmatch(line); m != nil {
				if d, err := decimal.NewFromString(m[1]); err == nil {
					amount = &d
				}
			}
		}
	}
	return models.NewRecord(vendor, amount, "", nil, recognized, fallbackConfidence)
}

// safeDecimal converts whatever number representation arrived into a
// decimal amount, or nil when there is none.
func safeDecimal(value interface{}) *decimal.Decimal {
	switch v := value.(type) {
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		return &d
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "$"))
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		return &d
	}
	return nil
}

func safeFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
