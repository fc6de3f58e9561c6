// Package codectest holds the behaviour every port.Serializer plugin must share.
package codectest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclingo/internal/domain"
	"doclingo/internal/port"
)

const responseBody = `{
	"status": "success",
	"errors": ["page 3: low OCR confidence"],
	"processing_time": 1.25,
	"document": {"filename": "report.pdf", "md_content": "# Report", "json_content": {"pages":2}},
	"task_id": "legacy-1"
}`

// Run exercises s against the wire shapes the client depends on.
func Run(t *testing.T, s port.Serializer, wantName string) {
	t.Helper()

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, wantName, s.Name())
	})

	t.Run("MarshalAdHocMap", func(t *testing.T) {
		payload := map[string]any{
			"sources": []map[string]any{{"kind": "http", "url": "https://x/y.pdf", "headers": map[string]string{}}},
			"options": map[string]any{"to_formats": []string{"md"}},
			"target":  map[string]any{"kind": "inbody"},
		}

		data, err := s.Marshal(payload)
		require.NoError(t, err)

		var back map[string]any
		require.NoError(t, s.Unmarshal(data, &back))
		sources := back["sources"].([]any)
		require.Len(t, sources, 1)
		src := sources[0].(map[string]any)
		assert.Equal(t, "http", src["kind"])
		assert.Equal(t, "https://x/y.pdf", src["url"])
		assert.Equal(t, map[string]any{}, src["headers"])
		assert.Equal(t, []any{"md"}, back["options"].(map[string]any)["to_formats"])
		assert.Equal(t, "inbody", back["target"].(map[string]any)["kind"])
	})

	t.Run("UnmarshalConversionResponse", func(t *testing.T) {
		var resp domain.ConversionResponse
		require.NoError(t, s.Unmarshal([]byte(responseBody), &resp))

		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, []string{"page 3: low OCR confidence"}, resp.Errors)
		assert.InDelta(t, 1.25, resp.ProcessingTime, 1e-9)
		assert.Equal(t, "legacy-1", resp.TaskID)
		require.NotNil(t, resp.Document)
		assert.Equal(t, "report.pdf", resp.Document.Filename)
		assert.Equal(t, "# Report", resp.Document.MDContent)
		assert.JSONEq(t, `{"pages":2}`, string(resp.Document.JSONContent))
	})

	t.Run("OutputFormatUsesWireToken", func(t *testing.T) {
		data, err := s.Marshal(map[string]any{"f": domain.FormatHTMLSplitPage})
		require.NoError(t, err)
		assert.JSONEq(t, `{"f":"html_split_page"}`, string(data))

		var back struct {
			F domain.OutputFormat `json:"f"`
		}
		require.NoError(t, s.Unmarshal(data, &back))
		assert.Equal(t, domain.FormatHTMLSplitPage, back.F)
	})

	t.Run("RejectsUnknownFormatToken", func(t *testing.T) {
		var back struct {
			F domain.OutputFormat `json:"f"`
		}
		assert.Error(t, s.Unmarshal([]byte(`{"f":"pdf"}`), &back))
	})

	t.Run("RejectsMalformedInput", func(t *testing.T) {
		var resp domain.ConversionResponse
		assert.Error(t, s.Unmarshal([]byte(`{"status": "success"`), &resp))
	})

	t.Run("RejectsIncompatibleShape", func(t *testing.T) {
		var resp domain.ConversionResponse
		assert.Error(t, s.Unmarshal([]byte(`{"status": 42}`), &resp))
	})
}
