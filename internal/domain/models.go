package domain

import "encoding/json"

// ConversionOptions holds optional tuning knobs for a conversion.
// Zero values are left out of the request.
type ConversionOptions struct {
	OCREngine  string `json:"ocr_engine,omitempty"`
	PDFBackend string `json:"pdf_backend,omitempty"`
	ForceOCR   *bool  `json:"force_ocr,omitempty"`
}

// ConversionRequest describes one conversion call over one or more sources.
type ConversionRequest struct {
	Sources []string
	Formats []OutputFormat
	Options *ConversionOptions
}

// ConversionResponse is the decoded body of a successful conversion.
type ConversionResponse struct {
	Status         string          `json:"status"`
	Errors         []string        `json:"errors,omitempty"`
	ProcessingTime float64         `json:"processing_time"`
	Document       *DocumentResult `json:"document,omitempty"`
	Timings        map[string]any  `json:"timings,omitempty"`

	// TaskID is only populated by older server builds.
	TaskID string `json:"task_id,omitempty"`
}

// DocumentResult carries the converted content of a single document.
type DocumentResult struct {
	Filename       string          `json:"filename"`
	MDContent      string          `json:"md_content,omitempty"`
	JSONContent    json.RawMessage `json:"json_content,omitempty"`
	HTMLContent    string          `json:"html_content,omitempty"`
	TextContent    string          `json:"text_content,omitempty"`
	DoctagsContent string          `json:"doctags_content,omitempty"`
}

// Content returns the produced content for the given format. HTML split-page
// output is delivered in the html field.
func (d *DocumentResult) Content(f OutputFormat) string {
	if d == nil {
		return ""
	}
	switch f {
	case FormatMarkdown:
		return d.MDContent
	case FormatJSON:
		return string(d.JSONContent)
	case FormatHTML, FormatHTMLSplitPage:
		return d.HTMLContent
	case FormatText:
		return d.TextContent
	case FormatDoctags:
		return d.DoctagsContent
	default:
		return ""
	}
}
