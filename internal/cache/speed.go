package cache

// Variant is one of the fixed playback-speed presets. Every vocabulary entry
// gets one audio file per variant; Suffix is what distinguishes them on disk.
type Variant struct {
	Value  float64
	Suffix string
	Label  string
}

// IsDefault reports whether v is the normal-speed variant.
func (v Variant) IsDefault() bool { return v.Suffix == defaultSuffix }

const defaultSuffix = "_default"

// The variant set is process-wide configuration, slowest first. The sentence
// drill cycles through it in this order.
var variants = [3]Variant{
	{Value: 0.5, Suffix: "_slower", Label: "x0.5"},
	{Value: 0.7, Suffix: "_slow", Label: "x0.7"},
	{Value: 1.0, Suffix: defaultSuffix, Label: "x1.0"},
}

// Variants returns the fixed speed-variant set, slowest first.
func Variants() []Variant {
	v := variants
	return v[:]
}

// DefaultVariant returns the normal-speed variant.
func DefaultVariant() Variant {
	return variants[len(variants)-1]
}
