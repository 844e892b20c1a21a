// Package ir defines the shader intermediate representation consumed by the
// SPIR-V emitter.
//
// A Library owns every node in flat arenas and nodes refer to one another by
// handle. Any node can also be referenced uniformly through a Ref, which is
// what instruction arguments and type parameters hold. Identity is by handle:
// two refs denote the same node exactly when they are equal.
//
// Libraries are normally assembled with a Builder:
//
//	b := ir.NewBuilder("Demo")
//	void := b.Void()
//	fn := b.Function("Main", b.FunctionType(void))
//	fn.Block("entry").Return()
//
// A library is not modified by emission. Per-emission nodes such as the
// generated globals initializer are added to a Scratch view instead.
package ir
