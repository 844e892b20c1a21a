// Package spirv emits SPIR-V binary modules from ir libraries.
//
// # Translation
//
// The Backend translates one type, or every entry point of a library, into
// a module:
//
//	backend := spirv.NewBackend(spirv.DefaultOptions())
//	res, err := backend.TranslateType(lib, shaderType)
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("shader.spv", res.Bytes(), 0o644)
//
// Each call runs a fresh session in three phases:
//   - Collect: walk from the entry points and record every referenced
//     import, type, constant, global and function. Types, constants and
//     globals are also kept in one interleaved declaration order with no
//     forward references.
//   - Allocate: assign dense ids starting at 1 in collection order. A
//     late-bound replacement function takes over its placeholder's id.
//   - Emit: write the header and the module sections in the order the
//     SPIR-V specification requires.
//
// Generated nodes (the globals initializer and the entry function of a type
// that has none) live in a scratch view of the library, so the source
// library is never modified and may be shared by concurrent translations.
//
// # Failures
//
// A reference to a node that was never assigned an id, or a constant of an
// unsupported type, means the IR was built inconsistently. Such failures
// panic with *InvariantError instead of being returned.
//
// # Binary Writer
//
// InstructionBuilder and Stream encode individual instructions, and Decode
// and Disassemble read a module back:
//
//	var s spirv.Stream
//	s.WriteHeader(spirv.Version1_2, bound)
//	s.Op(spv.OpCapability, uint32(spv.CapabilityShader))
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
