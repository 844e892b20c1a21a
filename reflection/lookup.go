package reflection

// FindUniform returns the final member reflection of a fragment's uniform
// property. The bool is false when the property was optimized away or never
// existed.
func (s *Simplified) FindUniform(fragment, property string) (*ResourceData, bool) {
	lookup, ok := s.Fragments[fragment]
	if !ok {
		return nil, false
	}
	loc, ok := lookup.Uniforms[property]
	if !ok {
		return nil, false
	}
	if loc.BufferIndex < 0 || loc.BufferIndex >= len(s.Reflection.Uniforms) {
		return nil, false
	}
	buffer := &s.Reflection.Uniforms[loc.BufferIndex]
	if loc.MemberIndex < 0 || loc.MemberIndex >= len(buffer.Members) {
		return nil, false
	}
	return &buffer.Members[loc.MemberIndex], true
}

// FindSampledImages returns every final resource a sampled-image property
// resolved to.
func (s *Simplified) FindSampledImages(fragment, property string) []*ResourceData {
	lookup, ok := s.Fragments[fragment]
	if !ok {
		return nil
	}
	return s.opaque(lookup.SampledImages, property)
}

// FindImages returns every final resource an image property resolved to.
func (s *Simplified) FindImages(fragment, property string) []*ResourceData {
	lookup, ok := s.Fragments[fragment]
	if !ok {
		return nil
	}
	return s.opaque(lookup.Images, property)
}

// FindSamplers returns every final resource a sampler property resolved to.
func (s *Simplified) FindSamplers(fragment, property string) []*ResourceData {
	lookup, ok := s.Fragments[fragment]
	if !ok {
		return nil
	}
	return s.opaque(lookup.Samplers, property)
}

// FindStorageImage returns the storage image bound to a property.
func (s *Simplified) FindStorageImage(fragment, property string) (*ResourceData, bool) {
	lookup, ok := s.Fragments[fragment]
	if !ok {
		return nil, false
	}
	index, ok := lookup.StorageImages[property]
	if !ok || index < 0 || index >= len(s.Reflection.StorageImages) {
		return nil, false
	}
	return &s.Reflection.StorageImages[index].ResourceData, true
}

// FindStorageBuffer returns the structured storage buffer bound to a
// property.
func (s *Simplified) FindStorageBuffer(fragment, property string) (*ResourceData, bool) {
	lookup, ok := s.Fragments[fragment]
	if !ok {
		return nil, false
	}
	index, ok := lookup.StorageBuffers[property]
	if !ok || index < 0 || index >= len(s.Reflection.StorageBuffers) {
		return nil, false
	}
	return &s.Reflection.StorageBuffers[index].ResourceData, true
}

// opaque collects image, sampler and sampled-image slots in that order.
func (s *Simplified) opaque(search map[string]OpaqueLocation, property string) []*ResourceData {
	loc, ok := search[property]
	if !ok {
		return nil
	}
	var out []*ResourceData
	out = appendResources(out, s.Reflection.Images, loc.ImageIDs)
	out = appendResources(out, s.Reflection.Samplers, loc.SamplerIDs)
	out = appendResources(out, s.Reflection.SampledImages, loc.SampledImageIDs)
	return out
}

func appendResources(out []*ResourceData, resources []StageResource, ids []int) []*ResourceData {
	for _, id := range ids {
		if id >= 0 && id < len(resources) {
			out = append(out, &resources[id].ResourceData)
		}
	}
	return out
}
