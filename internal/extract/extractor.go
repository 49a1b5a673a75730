// Package extract is the upstream OCR/AI collaborator: it turns a statement
// file (PDF, image, spreadsheet export) into raw headers and rows. The core
// engine only ever sees its output shape, never the model.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sejin-dev/statement-converter/internal/normalize"
)

// DefaultModelName is the vision model used for statement extraction.
const DefaultModelName = "gemini-2.0-flash"

// RawStatement is the fixed interface between extraction and the matching
// engine: ordered raw header strings and row records keyed by those headers,
// plus the bank identifier when the model could read one off the statement.
type RawStatement struct {
	BankID  string             `json:"bank_id,omitempty"`
	Headers []string           `json:"headers"`
	Rows    []normalize.RawRow `json:"rows"`
}

// Extractor converts statement file bytes into a raw statement.
type Extractor interface {
	Extract(ctx context.Context, fileBytes []byte, mimeType string) (*RawStatement, error)
}

// GeminiExtractor extracts statements with a Gemini vision prompt that
// demands strict JSON output.
type GeminiExtractor struct {
	Model string
}

// NewGeminiExtractor creates an extractor using the default model.
func NewGeminiExtractor() *GeminiExtractor {
	return &GeminiExtractor{Model: DefaultModelName}
}

const extractionPrompt = `You are a bank statement table extractor for Korean bank statements (scanned images, PDFs, spreadsheet exports).

Task:
- Locate the transaction table(s) in the attached file.
- Output STRICT JSON only (no comments, no trailing commas, no extra text).
- Output a single JSON object with these fields:
  - "bank_id": string or null. One of: kookmin, shinhan, woori, hana, nonghyup, ibk, kakaobank, tossbank. null if the institution cannot be determined.
  - "headers": array of strings. The column header texts EXACTLY as printed, in table order. Do not translate or normalize them.
  - "rows": array of arrays of strings. One inner array per transaction row, aligned with "headers". Keep cell text verbatim, including thousands separators and currency marks. Use "" for empty cells.
- Section header lines between transaction blocks (month banners, account numbers) must be emitted as a row whose first cell holds the section text and all other cells are "".

Return ONLY valid raw JSON.
Do NOT wrap the response in code fences.
Do NOT use ` + "```json" + ` or any Markdown.
Output must begin with "{" and end with "}".`

// Extract sends the file to the model and decodes its JSON answer.
func (e *GeminiExtractor) Extract(ctx context.Context, fileBytes []byte, mimeType string) (*RawStatement, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("Extract: create genai client: %w", err)
	}

	if mimeType == "" {
		mimeType = "application/pdf"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     fileBytes,
					},
				},
			},
		},
	}

	model := e.Model
	if model == "" {
		model = DefaultModelName
	}
	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Extract: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("Extract: empty response from model")
	}

	return decodeModelOutput(cleanModelJSON(rawText))
}

// modelOutput is the wire shape the prompt demands: rows as positional
// arrays, converted below into header-keyed records.
type modelOutput struct {
	BankID  *string    `json:"bank_id"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func decodeModelOutput(clean string) (*RawStatement, error) {
	var out modelOutput
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if len(out.Headers) == 0 {
		return nil, fmt.Errorf("decode model output: no headers extracted")
	}

	stmt := &RawStatement{Headers: out.Headers}
	if out.BankID != nil {
		stmt.BankID = strings.ToLower(strings.TrimSpace(*out.BankID))
	}
	for i, cells := range out.Rows {
		if len(cells) > len(out.Headers) {
			return nil, fmt.Errorf("decode model output: row %d has %d cells for %d headers", i, len(cells), len(out.Headers))
		}
		row := make(normalize.RawRow, len(out.Headers))
		for j, h := range out.Headers {
			if j < len(cells) {
				row[h] = cells[j]
			} else {
				row[h] = ""
			}
		}
		stmt.Rows = append(stmt.Rows, row)
	}
	return stmt, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}' if junk remains.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
