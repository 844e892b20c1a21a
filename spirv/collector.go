package spirv

import (
	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// Collector computes the transitive closure of the nodes an entry point
// references. Types, constants and globals are recorded after their
// operands, so Ordered never contains a forward reference.
type Collector struct {
	lib *ir.Library

	Imports   []ir.ImportHandle
	Types     []ir.TypeHandle
	Constants []ir.OpHandle
	Globals   []ir.OpHandle
	Functions []ir.FunctionHandle

	// Ordered interleaves types, constants and globals in the order they
	// must be declared.
	Ordered []ir.Ref

	// GlobalInitializers lists the initializer functions of collected
	// globals in discovery order.
	GlobalInitializers []ir.FunctionHandle

	Capabilities CapabilitySet

	visited   map[ir.Ref]bool
	functions map[ir.FunctionHandle]bool
	globals   map[ir.OpHandle]bool
	stack     []frame
}

type frame struct {
	ref      ir.Ref
	expanded bool
}

// NewCollector creates a collector over lib. Shader is always required.
func NewCollector(lib *ir.Library) *Collector {
	c := &Collector{
		lib:       lib,
		visited:   make(map[ir.Ref]bool),
		functions: make(map[ir.FunctionHandle]bool),
		globals:   make(map[ir.OpHandle]bool),
	}
	c.Capabilities.Add(spv.CapabilityShader)
	return c
}

// CollectEntryPoint collects everything ep references.
func (c *Collector) CollectEntryPoint(ep *ir.EntryPointInfo) {
	c.Collect(ir.FunctionRef(ep.Function))
	for _, h := range ep.Interface {
		c.Collect(ir.OpRef(h))
	}
	for _, h := range ep.Variables {
		c.Collect(ir.OpRef(h))
	}
	for _, h := range ep.ExecutionModes {
		c.Collect(ir.OpRef(h))
	}
	for _, h := range ep.Decorations {
		c.Collect(ir.OpRef(h))
	}
	for _, capability := range ep.Capabilities {
		c.Capabilities.Add(capability)
	}
	c.AddDecorationCapabilities(ep)
}

// Collect walks ref and everything reachable from it.
func (c *Collector) Collect(ref ir.Ref) {
	c.push(ref)
	for len(c.stack) > 0 {
		top := len(c.stack) - 1
		f := c.stack[top]
		if f.expanded {
			c.stack = c.stack[:top]
			c.finish(f.ref)
			continue
		}
		if c.visited[f.ref] {
			c.stack = c.stack[:top]
			continue
		}
		c.visited[f.ref] = true
		c.stack[top].expanded = true
		c.expand(f.ref)
	}
}

func (c *Collector) push(ref ir.Ref) {
	switch ref.Kind {
	case ir.RefNone, ir.RefLiteral, ir.RefBlock:
		return
	}
	if !c.visited[ref] {
		c.stack = append(c.stack, frame{ref: ref})
	}
}

// pushAll pushes refs so that they are expanded in order.
func (c *Collector) pushAll(refs []ir.Ref) {
	for i := len(refs) - 1; i >= 0; i-- {
		c.push(refs[i])
	}
}

func (c *Collector) expand(ref ir.Ref) {
	switch ref.Kind {
	case ir.RefImport:
		c.Imports = append(c.Imports, ir.ImportHandle(ref.Index))
	case ir.RefType:
		c.expandType(ir.TypeHandle(ref.Index))
	case ir.RefOp:
		c.expandOp(ir.OpHandle(ref.Index))
	case ir.RefFunction:
		c.expandFunction(ir.FunctionHandle(ref.Index))
	}
}

func (c *Collector) expandType(h ir.TypeHandle) {
	t := c.lib.Type(h)
	refs := t.Params
	if t.Kind == ir.TypePointer {
		refs = append([]ir.Ref{ir.TypeRef(t.Deref)}, refs...)
	}
	c.pushAll(refs)
}

func (c *Collector) expandOp(h ir.OpHandle) {
	op := c.lib.Op(h)
	if capability, ok := opCapability(op.Code); ok {
		c.Capabilities.Add(capability)
	}
	refs := make([]ir.Ref, 0, len(op.Args)+2)
	if op.ResultType != nil {
		refs = append(refs, ir.TypeRef(*op.ResultType))
	}
	refs = append(refs, op.Args...)
	if c.isGlobal(op) {
		if g, ok := c.lib.Global(h); ok && g.Initializer != nil {
			refs = append(refs, ir.FunctionRef(*g.Initializer))
		}
	}
	c.pushAll(refs)
}

// Functions are recorded before their bodies are walked so that a function
// precedes its callees.
func (c *Collector) expandFunction(h ir.FunctionHandle) {
	c.functions[h] = true
	c.Functions = append(c.Functions, h)

	fn := c.lib.Function(h)
	refs := []ir.Ref{ir.TypeRef(fn.Type)}
	for _, p := range fn.Params {
		refs = append(refs, ir.OpRef(p))
	}
	for _, bh := range fn.Blocks {
		block := c.lib.Block(bh)
		for _, l := range block.Locals {
			refs = append(refs, ir.OpRef(l))
		}
		for _, l := range block.Lines {
			refs = append(refs, ir.OpRef(l))
		}
	}
	c.pushAll(refs)
}

func (c *Collector) finish(ref ir.Ref) {
	switch ref.Kind {
	case ir.RefType:
		c.Types = append(c.Types, ir.TypeHandle(ref.Index))
		c.Ordered = append(c.Ordered, ref)
	case ir.RefOp:
		h := ir.OpHandle(ref.Index)
		op := c.lib.Op(h)
		switch {
		case op.Code.IsConstant():
			c.Constants = append(c.Constants, h)
			c.Ordered = append(c.Ordered, ref)
		case c.isGlobal(op):
			c.globals[h] = true
			c.Globals = append(c.Globals, h)
			c.Ordered = append(c.Ordered, ref)
			if g, ok := c.lib.Global(h); ok && g.Initializer != nil {
				c.GlobalInitializers = append(c.GlobalInitializers, *g.Initializer)
			}
		}
	}
}

// isGlobal reports whether op is a variable in a module-scope storage class.
func (c *Collector) isGlobal(op *ir.Op) bool {
	if op.Code != spv.OpVariable || op.ResultType == nil {
		return false
	}
	ptr := c.lib.Type(*op.ResultType)
	return ptr.Kind == ir.TypePointer && ptr.StorageClass.IsGlobal()
}

// HasFunction reports whether h was collected.
func (c *Collector) HasFunction(h ir.FunctionHandle) bool { return c.functions[h] }

// HasGlobal reports whether h was collected as a global variable.
func (c *Collector) HasGlobal(h ir.OpHandle) bool { return c.globals[h] }

// ReplaceFunction removes placeholder from the collected functions and
// collects replacement instead.
func (c *Collector) ReplaceFunction(placeholder, replacement ir.FunctionHandle) {
	delete(c.functions, placeholder)
	for i, h := range c.Functions {
		if h == placeholder {
			c.Functions = append(c.Functions[:i], c.Functions[i+1:]...)
			break
		}
	}
	c.Collect(ir.FunctionRef(replacement))
}
