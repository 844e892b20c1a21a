// Package reflection describes where shader resources live after
// compilation and folds the reflection of a multi-pass pipeline into one
// lookup table.
//
// # Stage Reflection
//
// Every pipeline pass produces a StageReflection: uniform buffers with their
// ordered members, samplers, images, sampled images, storage images, storage
// buffers, per-name remappings for image-like resources, and the binding ids
// of specialization constants.
//
// # Simplification
//
// Simplify takes the reflection of every pass of one stage, first pass first,
// and the fragment field descriptions used to compose that stage. It returns a
// table keyed by (fragment, field) that points into the last pass's
// reflection:
//
//	simplified := reflection.Simplify(library, fragments, passes)
//	member, ok := simplified.FindUniform("Albedo", "Color")
//	if !ok {
//		// optimized away
//	}
//
// Uniform buffers are followed through whole-buffer renames and removals.
// Image-like resources follow the remapping tables every pass reports, so a
// property may resolve to several slots. Storage images and storage buffers
// are looked up in the last pass directly.
//
// A property that cannot be resolved is reported as not found. This is never
// an error.
package reflection
