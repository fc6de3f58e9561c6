package domain

import "fmt"

// OutputFormat is a document format the conversion service can produce.
// The underlying string is the wire token sent in options.to_formats.
type OutputFormat string

const (
	FormatMarkdown      OutputFormat = "md"
	FormatJSON          OutputFormat = "json"
	FormatHTML          OutputFormat = "html"
	FormatHTMLSplitPage OutputFormat = "html_split_page"
	FormatText          OutputFormat = "text"
	FormatDoctags       OutputFormat = "doctags"
)

var allOutputFormats = []OutputFormat{
	FormatMarkdown,
	FormatJSON,
	FormatHTML,
	FormatHTMLSplitPage,
	FormatText,
	FormatDoctags,
}

// AllOutputFormats returns every supported format in declaration order.
func AllOutputFormats() []OutputFormat {
	out := make([]OutputFormat, len(allOutputFormats))
	copy(out, allOutputFormats)
	return out
}

// ParseOutputFormat maps a wire token back to its OutputFormat.
// Unknown tokens fail with ErrUnknownFormat; there is no default.
func ParseOutputFormat(token string) (OutputFormat, error) {
	for _, f := range allOutputFormats {
		if string(f) == token {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, token)
}

// WireToken returns the lowercase token used on the wire.
func (f OutputFormat) WireToken() string {
	return string(f)
}

// Valid reports whether f is one of the supported formats.
func (f OutputFormat) Valid() bool {
	_, err := ParseOutputFormat(string(f))
	return err == nil
}

func (f OutputFormat) String() string {
	return string(f)
}

// MarshalText encodes the format as its wire token.
func (f OutputFormat) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return []byte(f), nil
}

// UnmarshalText decodes a wire token, rejecting unknown values.
func (f *OutputFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseOutputFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// SourceKind tags an entry in the request's sources list.
type SourceKind string

const (
	SourceKindHTTP SourceKind = "http"
)

// TargetKind selects how the service delivers the converted document.
type TargetKind string

const (
	TargetKindInBody TargetKind = "inbody"
)
