package reflection

import "maps"

// ResourceData describes where one resource, or one member of a buffer, lives
// in a compiled stage.
type ResourceData struct {
	InstanceName  string `json:"instanceName" yaml:"instance_name" msgpack:"instance_name"`
	TypeName      string `json:"typeName" yaml:"type_name" msgpack:"type_name"`
	DescriptorSet int    `json:"descriptorSet" yaml:"descriptor_set" msgpack:"descriptor_set"`
	Binding       int    `json:"binding" yaml:"binding" msgpack:"binding"`
	Location      int    `json:"location" yaml:"location" msgpack:"location"`
	OffsetInBytes uint32 `json:"offset" yaml:"offset" msgpack:"offset"`
	SizeInBytes   uint32 `json:"size" yaml:"size" msgpack:"size"`
	Stride        uint32 `json:"stride" yaml:"stride" msgpack:"stride"`
}

// StageResource is a resource plus, for buffers, its ordered members and a
// member name to index map.
type StageResource struct {
	ResourceData `yaml:",inline"`

	Members   []ResourceData `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members"`
	LookupMap map[string]int `json:"lookup,omitempty" yaml:"lookup,omitempty" msgpack:"lookup"`
}

// AddMember appends a member and indexes it by instance name.
func (r *StageResource) AddMember(member ResourceData) int {
	if r.LookupMap == nil {
		r.LookupMap = make(map[string]int)
	}
	index := len(r.Members)
	r.Members = append(r.Members, member)
	r.LookupMap[member.InstanceName] = index
	return index
}

// Remappings lists the resource names a single name was merged into or
// split into by a pass.
type Remappings struct {
	Images        []string `json:"images,omitempty" yaml:"images,omitempty" msgpack:"images"`
	Samplers      []string `json:"samplers,omitempty" yaml:"samplers,omitempty" msgpack:"samplers"`
	SampledImages []string `json:"sampledImages,omitempty" yaml:"sampled_images,omitempty" msgpack:"sampled_images"`
}

func (r *Remappings) merge(other Remappings) {
	r.Images = append(r.Images, other.Images...)
	r.Samplers = append(r.Samplers, other.Samplers...)
	r.SampledImages = append(r.SampledImages, other.SampledImages...)
}

func (r Remappings) clone() Remappings {
	return Remappings{
		Images:        append([]string(nil), r.Images...),
		Samplers:      append([]string(nil), r.Samplers...),
		SampledImages: append([]string(nil), r.SampledImages...),
	}
}

// StageReflection is the reflection output of one pipeline pass for one
// shader stage.
type StageReflection struct {
	ShaderTypeName string `json:"shaderTypeName" yaml:"shader_type_name" msgpack:"shader_type_name"`

	Uniforms       []StageResource `json:"uniforms,omitempty" yaml:"uniforms,omitempty" msgpack:"uniforms"`
	Samplers       []StageResource `json:"samplers,omitempty" yaml:"samplers,omitempty" msgpack:"samplers"`
	Images         []StageResource `json:"images,omitempty" yaml:"images,omitempty" msgpack:"images"`
	SampledImages  []StageResource `json:"sampledImages,omitempty" yaml:"sampled_images,omitempty" msgpack:"sampled_images"`
	StorageImages  []StageResource `json:"storageImages,omitempty" yaml:"storage_images,omitempty" msgpack:"storage_images"`
	StorageBuffers []StageResource `json:"storageBuffers,omitempty" yaml:"storage_buffers,omitempty" msgpack:"storage_buffers"`

	// Per-name remappings, keyed by the name the resource had on input to
	// the pass that produced this reflection.
	ImageRemappings        map[string]Remappings `json:"imageRemappings,omitempty" yaml:"image_remappings,omitempty" msgpack:"image_remappings"`
	SamplerRemappings      map[string]Remappings `json:"samplerRemappings,omitempty" yaml:"sampler_remappings,omitempty" msgpack:"sampler_remappings"`
	SampledImageRemappings map[string]Remappings `json:"sampledImageRemappings,omitempty" yaml:"sampled_image_remappings,omitempty" msgpack:"sampled_image_remappings"`

	SpecializationConstants map[string]int `json:"specializationConstants,omitempty" yaml:"specialization_constants,omitempty" msgpack:"specialization_constants"`
}

// Clone returns a deep copy.
func (s *StageReflection) Clone() StageReflection {
	out := StageReflection{
		ShaderTypeName:          s.ShaderTypeName,
		Uniforms:                cloneResources(s.Uniforms),
		Samplers:                cloneResources(s.Samplers),
		Images:                  cloneResources(s.Images),
		SampledImages:           cloneResources(s.SampledImages),
		StorageImages:           cloneResources(s.StorageImages),
		StorageBuffers:          cloneResources(s.StorageBuffers),
		ImageRemappings:         cloneRemappings(s.ImageRemappings),
		SamplerRemappings:       cloneRemappings(s.SamplerRemappings),
		SampledImageRemappings:  cloneRemappings(s.SampledImageRemappings),
		SpecializationConstants: maps.Clone(s.SpecializationConstants),
	}
	return out
}

// SetSpecializationConstant records the binding id of a named constant.
func (s *StageReflection) SetSpecializationConstant(name string, id int) {
	if s.SpecializationConstants == nil {
		s.SpecializationConstants = make(map[string]int)
	}
	s.SpecializationConstants[name] = id
}

func cloneResources(in []StageResource) []StageResource {
	if in == nil {
		return nil
	}
	out := make([]StageResource, len(in))
	for i, r := range in {
		out[i] = StageResource{
			ResourceData: r.ResourceData,
			Members:      append([]ResourceData(nil), r.Members...),
			LookupMap:    maps.Clone(r.LookupMap),
		}
	}
	return out
}

func cloneRemappings(in map[string]Remappings) map[string]Remappings {
	if in == nil {
		return nil
	}
	out := make(map[string]Remappings, len(in))
	for k, v := range in {
		out[k] = v.clone()
	}
	return out
}

// indexByName maps each resource's instance name to its position.
func indexByName(resources []StageResource) map[string]int {
	m := make(map[string]int, len(resources))
	for i := range resources {
		m[resources[i].InstanceName] = i
	}
	return m
}
