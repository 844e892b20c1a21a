package reflection

// ResourceClass says which reflection table a fragment field is resolved
// against.
type ResourceClass int

// Resource classes.
const (
	ClassValue ResourceClass = iota
	ClassSampledImage
	ClassSampler
	ClassImage
	ClassStorageImage
	ClassStorageBuffer
)

func (c ResourceClass) String() string {
	switch c {
	case ClassValue:
		return "value"
	case ClassSampledImage:
		return "sampled-image"
	case ClassSampler:
		return "sampler"
	case ClassImage:
		return "image"
	case ClassStorageImage:
		return "storage-image"
	case ClassStorageBuffer:
		return "storage-buffer"
	default:
		return "unknown"
	}
}

// TypeClassifier resolves a field's declared type name to a resource class.
// *ir.Library implements it.
type TypeClassifier interface {
	ResourceClass(typeName string) ResourceClass
}

// FieldDescription is one composed fragment field.
type FieldDescription struct {
	// FieldName is the name declared on the fragment.
	FieldName string
	// PropertyName is the composed name reported by the first pass.
	PropertyName string
	// TypeName is the declared field type.
	TypeName string
}

// FragmentDescription lists the fields one fragment contributed to a stage.
type FragmentDescription struct {
	Name   string
	Fields []FieldDescription
}

// UniformLocation is a (buffer, member) pair in the final reflection.
type UniformLocation struct {
	BufferIndex int
	MemberIndex int
}

// OpaqueLocation holds every final slot an image-like property ended up in.
type OpaqueLocation struct {
	ImageIDs        []int
	SamplerIDs      []int
	SampledImageIDs []int
}

// FragmentLookup holds the resolved locations of one fragment's properties.
type FragmentLookup struct {
	Uniforms       map[string]UniformLocation
	SampledImages  map[string]OpaqueLocation
	Images         map[string]OpaqueLocation
	Samplers       map[string]OpaqueLocation
	StorageImages  map[string]int
	StorageBuffers map[string]int
}

func newFragmentLookup() *FragmentLookup {
	return &FragmentLookup{
		Uniforms:       make(map[string]UniformLocation),
		SampledImages:  make(map[string]OpaqueLocation),
		Images:         make(map[string]OpaqueLocation),
		Samplers:       make(map[string]OpaqueLocation),
		StorageImages:  make(map[string]int),
		StorageBuffers: make(map[string]int),
	}
}

// Simplified maps (fragment, property) pairs of one shader stage to their
// locations in the last pass's reflection.
type Simplified struct {
	Reflection StageReflection
	Fragments  map[string]*FragmentLookup
}

type bufferRename struct {
	name   string
	index  int
	active bool
}

// Simplify folds the reflection of every pass of one stage, first pass
// first, into a single lookup table. An empty pass list yields an empty
// table.
//
// Uniform buffers are traced by name across passes. Only whole-buffer
// renames and removals are followed: a buffer that is split or has its
// members reordered by a pass is reported as not found.
func Simplify(classifier TypeClassifier, fragments []FragmentDescription, passes []StageReflection) *Simplified {
	s := &Simplified{Fragments: make(map[string]*FragmentLookup)}
	if len(passes) == 0 {
		return s
	}
	s.Reflection = passes[len(passes)-1].Clone()

	s.resolveUniforms(fragments, passes)
	s.resolveOpaque(classifier, fragments, passes)
	s.resolveStorage(classifier, fragments, &passes[len(passes)-1])
	return s
}

func (s *Simplified) fragment(name string) *FragmentLookup {
	lookup, ok := s.Fragments[name]
	if !ok {
		lookup = newFragmentLookup()
		s.Fragments[name] = lookup
	}
	return lookup
}

func (s *Simplified) resolveUniforms(fragments []FragmentDescription, passes []StageReflection) {
	first := &passes[0]

	renames := make(map[string]*bufferRename, len(first.Uniforms))
	members := make(map[string]UniformLocation)
	for i := range first.Uniforms {
		buffer := &first.Uniforms[i]
		renames[buffer.InstanceName] = &bufferRename{name: buffer.InstanceName, index: i, active: true}
		for memberName, memberIndex := range buffer.LookupMap {
			members[memberName] = UniformLocation{BufferIndex: i, MemberIndex: memberIndex}
		}
	}

	for p := 1; p < len(passes); p++ {
		indices := indexByName(passes[p].Uniforms)
		for _, rename := range renames {
			index, ok := indices[rename.name]
			if !ok || !rename.active {
				rename.active = false
				continue
			}
			rename.name = passes[p].Uniforms[index].InstanceName
			rename.index = index
		}
	}

	for _, frag := range fragments {
		lookup := s.fragment(frag.Name)
		for _, field := range frag.Fields {
			member, ok := members[field.PropertyName]
			if !ok {
				continue
			}
			bufferName := first.Uniforms[member.BufferIndex].InstanceName
			rename, ok := renames[bufferName]
			if !ok || !rename.active {
				continue
			}
			lookup.Uniforms[field.FieldName] = UniformLocation{
				BufferIndex: rename.index,
				MemberIndex: member.MemberIndex,
			}
		}
	}
}

func (s *Simplified) resolveOpaque(classifier TypeClassifier, fragments []FragmentDescription, passes []StageReflection) {
	first := &passes[0]
	last := &passes[len(passes)-1]

	samplers := indexByName(last.Samplers)
	images := indexByName(last.Images)
	sampledImages := indexByName(last.SampledImages)

	for _, frag := range fragments {
		lookup := s.fragment(frag.Name)
		for _, field := range frag.Fields {
			var (
				start  map[string]Remappings
				target map[string]OpaqueLocation
			)
			switch classifier.ResourceClass(field.TypeName) {
			case ClassSampledImage:
				start, target = first.SampledImageRemappings, lookup.SampledImages
			case ClassSampler:
				start, target = first.SamplerRemappings, lookup.Samplers
			case ClassImage:
				start, target = first.ImageRemappings, lookup.Images
			default:
				continue
			}

			initial, ok := start[field.PropertyName]
			if !ok {
				continue
			}
			leaves := traceRemappings(passes, 1, initial)

			var loc OpaqueLocation
			loc.ImageIDs = namesToIndices(leaves.Images, images)
			loc.SamplerIDs = namesToIndices(leaves.Samplers, samplers)
			loc.SampledImageIDs = namesToIndices(leaves.SampledImages, sampledImages)
			target[field.FieldName] = loc
		}
	}
}

// traceRemappings replays the remapping tables of passes[index:] over the
// given names. Leaves are concatenated in depth-first order and are not
// deduplicated; a name a pass has no entry for has no leaves. Depth is
// bounded by the number of passes.
func traceRemappings(passes []StageReflection, index int, input Remappings) Remappings {
	if index >= len(passes) {
		return input.clone()
	}
	pass := &passes[index]

	var out Remappings
	for _, name := range input.Images {
		out.merge(traceRemappings(passes, index+1, pass.ImageRemappings[name]))
	}
	for _, name := range input.Samplers {
		out.merge(traceRemappings(passes, index+1, pass.SamplerRemappings[name]))
	}
	for _, name := range input.SampledImages {
		out.merge(traceRemappings(passes, index+1, pass.SampledImageRemappings[name]))
	}
	return out
}

func namesToIndices(names []string, indices map[string]int) []int {
	var out []int
	for _, name := range names {
		if index, ok := indices[name]; ok {
			out = append(out, index)
		}
	}
	return out
}

// resolveStorage maps storage images and storage buffers against the last
// pass only. Passes are assumed never to rename them.
func (s *Simplified) resolveStorage(classifier TypeClassifier, fragments []FragmentDescription, last *StageReflection) {
	buffers := indexByName(last.StorageBuffers)
	images := indexByName(last.StorageImages)

	for _, frag := range fragments {
		lookup := s.fragment(frag.Name)
		for _, field := range frag.Fields {
			switch classifier.ResourceClass(field.TypeName) {
			case ClassStorageBuffer:
				if index, ok := buffers[field.PropertyName]; ok {
					lookup.StorageBuffers[field.FieldName] = index
				} else if index, ok := buffers[field.FieldName]; ok {
					lookup.StorageBuffers[field.FieldName] = index
				}
			case ClassStorageImage:
				if index, ok := images[field.PropertyName]; ok {
					lookup.StorageImages[field.FieldName] = index
				}
			}
		}
	}
}
