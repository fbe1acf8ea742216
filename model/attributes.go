package model

import "time"

// ValueKind represents the kind of an attribute value
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueDate
	ValueBlocks
	ValueAsset
)

func (vk ValueKind) String() string {
	switch vk {
	case ValueString:
		return "string"
	case ValueDate:
		return "date"
	case ValueBlocks:
		return "blocks"
	case ValueAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// AssetRef names an asset (an avatar, a banner image) to be resolved at
// render time.
type AssetRef string

// IsZero reports whether the reference is empty
func (a AssetRef) IsZero() bool { return a == "" }

// Value is a component attribute value. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Value struct {
	Kind   ValueKind
	Str    string
	Date   time.Time
	Blocks []Block
	Asset  AssetRef
}

// StringValue creates a string value
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// DateValue creates a date value
func DateValue(t time.Time) Value { return Value{Kind: ValueDate, Date: t} }

// BlocksValue creates a nested block sequence value
func BlocksValue(blocks []Block) Value { return Value{Kind: ValueBlocks, Blocks: blocks} }

// AssetValue creates an asset reference value
func AssetValue(ref AssetRef) Value { return Value{Kind: ValueAsset, Asset: ref} }

// Attributes is an insertion-ordered mapping from attribute name to value.
// The zero value is an empty mapping ready to use.
type Attributes struct {
	names  []string
	values map[string]Value
}

// Set adds or replaces an attribute. A replaced attribute keeps its position.
func (a *Attributes) Set(name string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = v
}

// Get returns the named value
func (a Attributes) Get(name string) (Value, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Has reports whether the attribute is present
func (a Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Len returns the number of attributes
func (a Attributes) Len() int { return len(a.names) }

// Names returns attribute names in authored order
func (a Attributes) Names() []string {
	return append([]string(nil), a.names...)
}

// String returns a string attribute
func (a Attributes) String(name string) (string, bool) {
	v, ok := a.values[name]
	if !ok || v.Kind != ValueString {
		return "", false
	}
	return v.Str, true
}

// Date returns a date attribute
func (a Attributes) Date(name string) (time.Time, bool) {
	v, ok := a.values[name]
	if !ok || v.Kind != ValueDate {
		return time.Time{}, false
	}
	return v.Date, true
}

// Blocks returns a nested block sequence attribute
func (a Attributes) Blocks(name string) ([]Block, bool) {
	v, ok := a.values[name]
	if !ok || v.Kind != ValueBlocks {
		return nil, false
	}
	return v.Blocks, true
}

// Asset returns an asset reference attribute
func (a Attributes) Asset(name string) (AssetRef, bool) {
	v, ok := a.values[name]
	if !ok || v.Kind != ValueAsset {
		return "", false
	}
	return v.Asset, true
}
