package port

// Serializer converts values to and from the JSON wire format.
// Implementations must accept ad-hoc map[string]any values and be pure.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}
