package spirv

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_2 = Version{1, 2}
	Version1_3 = Version{1, 3}
	Version1_5 = Version{1, 5}
)

// Word returns the version as it appears in the module header.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// Options configures SPIR-V generation.
type Options struct {
	// Version is the SPIR-V version written to the header
	Version Version

	// DebugNames emits OpName and OpMemberName for named nodes
	DebugNames bool
}

// DefaultOptions returns the options used by the engine.
func DefaultOptions() Options {
	return Options{
		Version:    Version1_2,
		DebugNames: true,
	}
}

// Header constants
const (
	GeneratorID = 0x00000000 // Unregistered generator
	HeaderWords = 5

	// SourceVersion is the version operand of the OpSource marker.
	SourceVersion = 100
)
