package spirv

import (
	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// CapabilitySet is an insertion-ordered set of capabilities.
type CapabilitySet struct {
	list []spv.Capability
	seen map[spv.Capability]bool
}

// Add inserts c if it is not present yet.
func (s *CapabilitySet) Add(c spv.Capability) {
	if s.seen == nil {
		s.seen = make(map[spv.Capability]bool)
	}
	if s.seen[c] {
		return
	}
	s.seen[c] = true
	s.list = append(s.list, c)
}

// Has reports whether c is in the set.
func (s *CapabilitySet) Has(c spv.Capability) bool { return s.seen[c] }

// List returns the capabilities in insertion order.
func (s *CapabilitySet) List() []spv.Capability { return s.list }

// opCapability returns the capability an instruction requires beyond Shader.
func opCapability(code spv.Op) (spv.Capability, bool) {
	switch code {
	case spv.OpImageQuerySizeLod, spv.OpImageQuerySize, spv.OpImageQueryLod,
		spv.OpImageQueryLevels, spv.OpImageQuerySamples:
		return spv.CapabilityImageQuery, true
	case spv.OpDPdxFine, spv.OpDPdyFine, spv.OpFwidthFine,
		spv.OpDPdxCoarse, spv.OpDPdyCoarse, spv.OpFwidthCoarse:
		return spv.CapabilityDerivativeControl, true
	case spv.OpEmitVertex, spv.OpEndPrimitive:
		return spv.CapabilityGeometry, true
	}
	return 0, false
}

// builtInCapability returns the capability a BuiltIn decoration requires.
func builtInCapability(b spv.BuiltIn) (spv.Capability, bool) {
	switch b {
	case spv.BuiltInClipDistance:
		return spv.CapabilityClipDistance, true
	case spv.BuiltInCullDistance:
		return spv.CapabilityCullDistance, true
	case spv.BuiltInPrimitiveID, spv.BuiltInInvocationID:
		return spv.CapabilityGeometry, true
	}
	return 0, false
}

// AddDecorationCapabilities adds the capabilities implied by an entry
// point's stage and built-in decorations.
func (c *Collector) AddDecorationCapabilities(ep *ir.EntryPointInfo) {
	if ep.Stage == ir.FragmentGeometry {
		c.Capabilities.Add(spv.CapabilityGeometry)
	}
	for _, h := range ep.Decorations {
		op := c.lib.Op(h)
		var decArg int
		switch op.Code {
		case spv.OpDecorate:
			decArg = 1
		case spv.OpMemberDecorate:
			decArg = 2
		default:
			continue
		}
		if len(op.Args) <= decArg+1 {
			continue
		}
		if c.literal(op.Args[decArg]) != uint32(spv.DecorationBuiltIn) {
			continue
		}
		if capability, ok := builtInCapability(spv.BuiltIn(c.literal(op.Args[decArg+1]))); ok {
			c.Capabilities.Add(capability)
		}
	}
}

func (c *Collector) literal(r ir.Ref) uint32 {
	if r.Kind != ir.RefLiteral {
		return ^uint32(0)
	}
	return c.lib.Literal(ir.LiteralHandle(r.Index)).Bits
}
