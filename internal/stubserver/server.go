// Package stubserver is a fake docling-serve for local development and
// end-to-end tests. It validates request bodies the way the real service does
// and answers with canned content for each requested format.
package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"doclingo/internal/domain"
)

// Options configures the stub.
type Options struct {
	// APIKey, when set, is required in the X-Api-Key header of conversion calls.
	APIKey string
	Logger zerolog.Logger
}

// New builds the gin engine serving /health and /v1/convert/source.
func New(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(opts.Logger))

	r.GET("/health", health)

	v1 := r.Group("/v1")
	v1.Use(APIKey(opts.APIKey))
	v1.POST("/convert/source", convertSource)

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sourceSpec struct {
	Kind    string            `json:"kind"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

type convertSourceRequest struct {
	Sources []sourceSpec `json:"sources"`
	Options struct {
		ToFormats  []domain.OutputFormat `json:"to_formats"`
		OCREngine  string                `json:"ocr_engine"`
		PDFBackend string                `json:"pdf_backend"`
		ForceOCR   *bool                 `json:"force_ocr"`
	} `json:"options"`
	Target struct {
		Kind string `json:"kind"`
	} `json:"target"`
}

func convertSource(c *gin.Context) {
	start := time.Now()

	var req convertSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	src := req.Sources[0]
	name := filename(src.URL)
	doc := &domain.DocumentResult{Filename: name}
	for _, f := range req.Options.ToFormats {
		fill(doc, f, name, src.URL)
	}

	var errs []string
	if len(req.Sources) > 1 {
		errs = append(errs, fmt.Sprintf("stub converted only the first of %d sources", len(req.Sources)))
	}

	c.JSON(http.StatusOK, domain.ConversionResponse{
		Status:         "success",
		Errors:         errs,
		ProcessingTime: time.Since(start).Seconds(),
		Document:       doc,
	})
}

func validate(req *convertSourceRequest) error {
	if len(req.Sources) == 0 {
		return fmt.Errorf("sources must not be empty")
	}
	for i, s := range req.Sources {
		if s.Kind != string(domain.SourceKindHTTP) {
			return fmt.Errorf("sources[%d].kind: unsupported %q", i, s.Kind)
		}
		if s.URL == "" {
			return fmt.Errorf("sources[%d].url is required", i)
		}
		if s.Headers == nil {
			return fmt.Errorf("sources[%d].headers is required", i)
		}
	}
	if req.Target.Kind != string(domain.TargetKindInBody) {
		return fmt.Errorf("target.kind: unsupported %q", req.Target.Kind)
	}
	return nil
}

func filename(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "document"
	}
	return path.Base(u.Path)
}

func fill(doc *domain.DocumentResult, f domain.OutputFormat, name, src string) {
	switch f {
	case domain.FormatMarkdown:
		doc.MDContent = fmt.Sprintf("# %s\n\nConverted from %s\n", name, src)
	case domain.FormatJSON:
		doc.JSONContent, _ = json.Marshal(map[string]string{"schema_name": "DoclingDocument", "name": name})
	case domain.FormatHTML, domain.FormatHTMLSplitPage:
		doc.HTMLContent = fmt.Sprintf("<html><body><h1>%s</h1></body></html>", name)
	case domain.FormatText:
		doc.TextContent = fmt.Sprintf("%s\n\nConverted from %s\n", name, src)
	case domain.FormatDoctags:
		doc.DoctagsContent = fmt.Sprintf("<doctag><title>%s</title></doctag>", name)
	}
}
