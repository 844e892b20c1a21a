package ir

// FragmentType is the pipeline stage a fragment or shader type targets.
type FragmentType uint8

// Fragment types.
const (
	FragmentNone FragmentType = iota
	FragmentVertex
	FragmentPixel
	FragmentGeometry
	FragmentCompute
)

func (f FragmentType) String() string {
	switch f {
	case FragmentNone:
		return "none"
	case FragmentVertex:
		return "vertex"
	case FragmentPixel:
		return "pixel"
	case FragmentGeometry:
		return "geometry"
	case FragmentCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// ParseFragmentType parses the lowercase stage names used by String.
func ParseFragmentType(s string) (FragmentType, bool) {
	switch s {
	case "", "none":
		return FragmentNone, true
	case "vertex":
		return FragmentVertex, true
	case "pixel", "fragment":
		return FragmentPixel, true
	case "geometry":
		return FragmentGeometry, true
	case "compute":
		return FragmentCompute, true
	}
	return FragmentNone, false
}

// Attribute is a declared attribute such as [TextureFilteringBilinear].
type Attribute struct {
	Name   string
	Params []string
}

// FieldMeta describes a declared field of a fragment.
type FieldMeta struct {
	Name       string
	TypeName   string
	Attributes []Attribute
}

// HasAttribute reports whether the field carries the named attribute.
func (f *FieldMeta) HasAttribute(name string) bool {
	for i := range f.Attributes {
		if f.Attributes[i].Name == name {
			return true
		}
	}
	return false
}

// TypeMeta is the source-level description of a type.
type TypeMeta struct {
	Name     string
	Fragment FragmentType
	Fields   []FieldMeta
}

// FindField returns the field with the given name.
func (m *TypeMeta) FindField(name string) (*FieldMeta, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}
