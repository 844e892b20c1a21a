package irdoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/plasmaengine/lightningspv/ir"
	"github.com/plasmaengine/lightningspv/spv"
)

// Load reads a document from r and builds its library.
func Load(r io.Reader) (*ir.Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("irdoc: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// LoadFile loads the document at path. A document without a name is named
// after the file.
func LoadFile(path string) (*ir.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("irdoc: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	lib, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

type pendingArgs struct {
	op    ir.OpHandle
	fn    string
	args  []string
	where string
}

// loader builds one document. Names are resolved against the declarations
// seen so far, except instruction operands, which are resolved once every
// function body exists.
type loader struct {
	doc *Document
	b   *ir.Builder
	lib *ir.Library

	scalars   map[string]func() ir.TypeHandle
	types     map[string]ir.TypeHandle
	ops       map[string]ir.OpHandle
	locals    map[string]map[string]ir.OpHandle
	functions map[string]ir.FunctionHandle
	blocks    map[string]map[string]ir.BlockHandle
	bodies    map[string][]*ir.BlockBuilder
	imports   map[string]ir.ImportHandle

	pending []pendingArgs
}

// Build creates the library the document describes.
func (d *Document) Build() (*ir.Library, error) {
	b := ir.NewBuilder(d.Name)
	l := &loader{
		doc: d,
		b:   b,
		lib: b.Library(),
		scalars: map[string]func() ir.TypeHandle{
			"Void":     b.Void,
			"Boolean":  b.Bool,
			"Integer":  b.Int,
			"UInteger": b.Uint,
			"Real":     b.Float,
			"Sampler":  b.Sampler,
		},
		types:     make(map[string]ir.TypeHandle),
		ops:       make(map[string]ir.OpHandle),
		locals:    make(map[string]map[string]ir.OpHandle),
		functions: make(map[string]ir.FunctionHandle),
		blocks:    make(map[string]map[string]ir.BlockHandle),
		bodies:    make(map[string][]*ir.BlockBuilder),
		imports:   make(map[string]ir.ImportHandle),
	}

	steps := []func() error{
		l.loadImports,
		l.loadTypes,
		l.loadConstants,
		l.declareFunctions,
		l.loadGlobals,
		l.loadBodies,
		l.resolveOperands,
		l.loadEntryPoints,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return l.lib, nil
}

func (l *loader) loadImports() error {
	for _, name := range l.doc.Imports {
		l.imports[name] = l.b.Import(name)
	}
	return nil
}

func (l *loader) loadTypes() error {
	for i := range l.doc.Types {
		t := &l.doc.Types[i]
		where := fmt.Sprintf("type %d (%s)", i, t.Name)
		h, err := l.loadType(t)
		if err != nil {
			return declError(where, err)
		}
		if t.Name == "" {
			continue
		}
		if _, dup := l.types[t.Name]; dup {
			return declError(where, invalid("duplicate type name %q", t.Name))
		}
		l.types[t.Name] = h
	}
	return nil
}

func (l *loader) loadType(t *TypeDecl) (ir.TypeHandle, error) {
	switch t.Kind {
	case "struct", "fragment", "image", "sampled-image":
		if t.Name == "" {
			return 0, invalid("%s type needs a name", t.Kind)
		}
	}

	switch t.Kind {
	case "vector":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		if t.Count < 2 || t.Count > 4 {
			return 0, invalid("vector size %d", t.Count)
		}
		return l.b.Vector(of, t.Count), nil

	case "matrix":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		if l.lib.Type(of).Kind != ir.TypeVector || t.Count < 2 || t.Count > 4 {
			return 0, invalid("matrix of %s with %d columns", t.Of, t.Count)
		}
		return l.b.Matrix(of, t.Count), nil

	case "struct":
		members := make([]ir.Member, 0, len(t.Members))
		for _, m := range t.Members {
			h, err := l.typeNamed(m.Type)
			if err != nil {
				return 0, err
			}
			members = append(members, ir.Member{Name: m.Name, Type: h})
		}
		return l.b.Struct(t.Name, members...), nil

	case "fragment":
		stage, ok := ir.ParseFragmentType(t.Stage)
		if !ok {
			return 0, invalid("unknown stage %q", t.Stage)
		}
		fields := make([]ir.FieldMeta, 0, len(t.Fields))
		for _, f := range t.Fields {
			// Fields of types the library does not declare, such as
			// engine textures, are kept as metadata only.
			typeName := f.Type
			if h, err := l.typeNamed(f.Type); err == nil {
				typeName = l.lib.Type(h).Name
			}
			field := ir.FieldMeta{Name: f.Name, TypeName: typeName}
			for _, a := range f.Attributes {
				field.Attributes = append(field.Attributes, ir.Attribute{Name: a.Name, Params: a.Params})
			}
			fields = append(fields, field)
		}
		return l.b.Fragment(t.Name, stage, fields...), nil

	case "function":
		ret := t.Of
		if ret == "" {
			ret = "Void"
		}
		return l.functionType(ret, t.Params)

	case "pointer":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		class, ok := spv.StorageClassByName(t.Storage)
		if !ok {
			return 0, invalid("unknown storage class %q", t.Storage)
		}
		return l.b.Pointer(of, class), nil

	case "array":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		if t.Count == 0 {
			return 0, invalid("array of %s has no length", t.Of)
		}
		return l.b.FixedArray(of, t.Count), nil

	case "runtime-array":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		return l.b.RuntimeArray(of), nil

	case "image":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		return l.b.Image(t.Name, of, ir.ImageOptions{
			Dim:          t.Image.Dim,
			Depth:        t.Image.Depth,
			Arrayed:      t.Image.Arrayed,
			Multisampled: t.Image.Multisampled,
			Sampled:      t.Image.Sampled,
			Format:       t.Image.Format,
		}), nil

	case "sampled-image":
		of, err := l.typeNamed(t.Of)
		if err != nil {
			return 0, err
		}
		if l.lib.Type(of).Kind != ir.TypeImage {
			return 0, invalid("sampled image over non-image %s", t.Of)
		}
		return l.b.SampledImage(t.Name, of), nil
	}
	return 0, invalid("unknown type kind %q", t.Kind)
}

func (l *loader) functionType(ret string, params []string) (ir.TypeHandle, error) {
	r, err := l.typeNamed(ret)
	if err != nil {
		return 0, err
	}
	ps := make([]ir.TypeHandle, len(params))
	for i, p := range params {
		if ps[i], err = l.typeNamed(p); err != nil {
			return 0, err
		}
	}
	return l.b.FunctionType(r, ps...), nil
}

func (l *loader) defineOp(name string, h ir.OpHandle) error {
	if _, dup := l.ops[name]; dup {
		return invalid("duplicate name %q", name)
	}
	l.ops[name] = h
	return nil
}

func (l *loader) loadConstants() error {
	for i := range l.doc.Constants {
		c := &l.doc.Constants[i]
		where := fmt.Sprintf("constant %d (%s)", i, c.Name)
		h, err := l.loadConstant(c)
		if err != nil {
			return declError(where, err)
		}
		if c.Name != "" {
			if err := l.defineOp(c.Name, h); err != nil {
				return declError(where, err)
			}
		}
	}
	return nil
}

func (l *loader) loadConstant(c *ConstantDecl) (ir.OpHandle, error) {
	t, err := l.typeNamed(c.Type)
	if err != nil {
		return 0, err
	}
	if c.Spec && c.Name == "" {
		return 0, invalid("specialization constants need a name")
	}

	if len(c.Parts) > 0 {
		parts := make([]ir.OpHandle, len(c.Parts))
		for i, p := range c.Parts {
			if parts[i], err = l.opNamed("", p); err != nil {
				return 0, err
			}
		}
		if c.Spec {
			return l.b.SpecConstantComposite(t, c.Name, parts...), nil
		}
		h := l.b.ConstantComposite(t, parts...)
		l.b.SetName(h, c.Name)
		return h, nil
	}

	kind, ok := literalKind(l.lib.Type(t).Kind)
	if !ok {
		return 0, invalid("scalar constant of non-scalar type %s", c.Type)
	}
	lit, err := parseLiteral(kind, c.Value)
	if err != nil {
		return 0, err
	}
	if c.Spec {
		return l.b.SpecConstant(t, c.Name, lit), nil
	}
	return l.b.Constant(t, lit), nil
}

func (l *loader) declareFunctions() error {
	for i := range l.doc.Functions {
		f := &l.doc.Functions[i]
		where := "function " + f.Name
		if _, dup := l.functions[f.Name]; dup || f.Name == "" {
			return declError(where, invalid("missing or duplicate function name"))
		}

		ret := f.Return
		if ret == "" {
			ret = "Void"
		}
		paramTypes := make([]string, len(f.Params))
		for j, p := range f.Params {
			paramTypes[j] = p.Type
		}
		fnType, err := l.functionType(ret, paramTypes)
		if err != nil {
			return declError(where, err)
		}

		if f.Abstract {
			if len(f.Blocks) > 0 || len(f.Params) > 0 {
				return declError(where, invalid("abstract function with a body"))
			}
			l.functions[f.Name] = l.b.AbstractFunction(f.Name, fnType)
			continue
		}
		if len(f.Blocks) == 0 {
			return declError(where, invalid("function has no blocks"))
		}

		fb := l.b.Function(f.Name, fnType)
		l.functions[f.Name] = fb.Handle()
		scope := make(map[string]ir.OpHandle)
		l.locals[f.Name] = scope
		for j, p := range f.Params {
			t, _ := l.typeNamed(paramTypes[j])
			scope[p.Name] = fb.Param(t, p.Name)
		}

		blocks := make(map[string]ir.BlockHandle, len(f.Blocks))
		for _, bd := range f.Blocks {
			bb := fb.Block(bd.Name)
			if bd.Name != "" {
				if _, dup := blocks[bd.Name]; dup {
					return declError(where, invalid("duplicate block %q", bd.Name))
				}
				blocks[bd.Name] = bb.Handle()
			}
			l.bodies[f.Name] = append(l.bodies[f.Name], bb)
		}
		l.blocks[f.Name] = blocks
	}
	return nil
}

func (l *loader) loadGlobals() error {
	for i := range l.doc.Globals {
		g := &l.doc.Globals[i]
		where := "global " + g.Name
		t, err := l.typeNamed(g.Type)
		if err != nil {
			return declError(where, err)
		}
		class, ok := spv.StorageClassByName(g.Storage)
		if !ok || !class.IsGlobal() {
			return declError(where, invalid("storage class %q is not a module-scope class", g.Storage))
		}
		var init *ir.FunctionHandle
		if g.Initializer != "" {
			fn, err := l.functionNamed(g.Initializer)
			if err != nil {
				return declError(where, err)
			}
			init = &fn
		}
		h := l.b.GlobalVariable(t, class, g.Name, init)
		if err := l.defineOp(g.Name, h); err != nil {
			return declError(where, err)
		}
	}
	return nil
}

func (l *loader) loadBodies() error {
	for i := range l.doc.Functions {
		f := &l.doc.Functions[i]
		if f.Abstract {
			continue
		}
		scope := l.locals[f.Name]
		for j := range f.Blocks {
			bd := &f.Blocks[j]
			bb := l.bodies[f.Name][j]
			where := fmt.Sprintf("function %s, block %d (%s)", f.Name, j, bd.Name)
			if err := l.loadBlock(f.Name, scope, bd, bb, where); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *loader) loadBlock(fn string, scope map[string]ir.OpHandle, bd *BlockDecl, bb *ir.BlockBuilder, where string) error {
	switch bd.Kind {
	case "":
	case "selection":
		merge, err := l.blockNamed(fn, bd.Merge)
		if err != nil {
			return declError(where, err)
		}
		bb.SelectionHeader(merge)
	case "loop":
		merge, err := l.blockNamed(fn, bd.Merge)
		if err != nil {
			return declError(where, err)
		}
		cont, err := l.blockNamed(fn, bd.Continue)
		if err != nil {
			return declError(where, err)
		}
		bb.LoopHeader(merge, cont)
	default:
		return declError(where, invalid("unknown block kind %q", bd.Kind))
	}

	for _, local := range bd.Locals {
		t, err := l.typeNamed(local.Type)
		if err != nil {
			return declError(where, err)
		}
		if _, dup := scope[local.Name]; dup {
			return declError(where, invalid("duplicate local %q", local.Name))
		}
		scope[local.Name] = bb.Local(t, local.Name)
	}

	for k, od := range bd.Ops {
		opWhere := fmt.Sprintf("%s, op %d (%s)", where, k, od.Op)
		code, ok := spv.OpByName(od.Op)
		if !ok {
			return declError(opWhere, fmt.Errorf("%w: %q", ErrUnknownOpcode, od.Op))
		}
		var result *ir.TypeHandle
		if od.Type != "" {
			t, err := l.typeNamed(od.Type)
			if err != nil {
				return declError(opWhere, err)
			}
			result = &t
		}
		h := bb.Emit(code, result)
		if od.Name != "" {
			l.b.SetName(h, od.Name)
		}
		if od.ID != "" {
			if _, dup := scope[od.ID]; dup {
				return declError(opWhere, invalid("duplicate id %q", od.ID))
			}
			scope[od.ID] = h
		}
		l.pending = append(l.pending, pendingArgs{op: h, fn: fn, args: od.Args, where: opWhere})
	}
	return nil
}

func (l *loader) resolveOperands() error {
	for _, p := range l.pending {
		args := make([]ir.Ref, len(p.args))
		for i, s := range p.args {
			r, err := l.ref(p.fn, s)
			if err != nil {
				return declError(p.where, err)
			}
			args[i] = r
		}
		l.lib.Op(p.op).Args = args
	}
	l.pending = nil
	return nil
}

func (l *loader) loadEntryPoints() error {
	for i := range l.doc.EntryPoints {
		e := &l.doc.EntryPoints[i]
		if err := l.loadEntryPoint(e); err != nil {
			return declError(fmt.Sprintf("entry point %d (%s)", i, e.Type), err)
		}
	}
	return nil
}

func (l *loader) loadEntryPoint(e *EntryDecl) error {
	owner, err := l.typeNamed(e.Type)
	if err != nil {
		return err
	}
	if l.lib.Type(owner).EntryPoint != nil {
		return invalid("type %s already has an entry point", e.Type)
	}
	fn, err := l.functionNamed(e.Function)
	if err != nil {
		return err
	}
	stage, ok := ir.ParseFragmentType(e.Stage)
	if !ok || stage == ir.FragmentNone {
		return invalid("entry point needs a stage, got %q", e.Stage)
	}

	ep := l.b.EntryPoint(owner, fn, stage)
	if e.Reflection != nil {
		name := ep.Reflection.ShaderTypeName
		ep.Reflection = e.Reflection.Clone()
		if ep.Reflection.ShaderTypeName == "" {
			ep.Reflection.ShaderTypeName = name
		}
	}

	vars, err := l.globalsNamed(e.Interface)
	if err != nil {
		return err
	}
	l.b.Interface(ep, vars...)
	if vars, err = l.globalsNamed(e.Variables); err != nil {
		return err
	}
	ep.Variables = append(ep.Variables, vars...)

	for _, m := range e.ExecutionModes {
		mode, ok := spv.ExecutionModeByName(m.Mode)
		if !ok {
			return invalid("unknown execution mode %q", m.Mode)
		}
		l.b.ExecutionMode(ep, mode, m.Params...)
	}

	for _, d := range e.Decorations {
		target, err := l.ref("", d.Target)
		if err != nil {
			return err
		}
		decoration, params, err := decorationOperands(d.Decoration, d.Params)
		if err != nil {
			return err
		}
		l.b.Decorate(ep, target, decoration, params...)
	}
	for _, d := range e.MemberDecorations {
		st, err := l.typeNamed(d.Type)
		if err != nil {
			return err
		}
		if l.lib.Type(st).Kind != ir.TypeStruct {
			return invalid("member decoration of non-struct %s", d.Type)
		}
		decoration, params, err := decorationOperands(d.Decoration, d.Params)
		if err != nil {
			return err
		}
		l.b.MemberDecorate(ep, st, d.Member, decoration, params...)
	}

	for _, name := range e.Capabilities {
		c, ok := spv.CapabilityByName(name)
		if !ok {
			return invalid("unknown capability %q", name)
		}
		ep.Capabilities = append(ep.Capabilities, c)
	}

	if e.GlobalsInitializer != "" {
		h, err := l.functionNamed(e.GlobalsInitializer)
		if err != nil {
			return err
		}
		ep.GlobalsInitializer = &h
	}
	for _, lb := range e.LateBound {
		placeholder, err := l.functionNamed(lb.Placeholder)
		if err != nil {
			return err
		}
		replacement, err := l.functionNamed(lb.Replacement)
		if err != nil {
			return err
		}
		ep.LateBound = append(ep.LateBound, ir.LateBinding{Placeholder: placeholder, Replacement: replacement})
	}
	return nil
}

func (l *loader) globalsNamed(names []string) ([]ir.OpHandle, error) {
	out := make([]ir.OpHandle, 0, len(names))
	for _, name := range names {
		h, ok := l.ops[name]
		if !ok {
			return nil, unresolved("global", name)
		}
		if _, ok := l.lib.Global(h); !ok {
			return nil, invalid("%s is not a global variable", name)
		}
		out = append(out, h)
	}
	return out, nil
}

func decorationOperands(name string, params []string) (spv.Decoration, []uint32, error) {
	d, ok := spv.DecorationByName(name)
	if !ok {
		return 0, nil, invalid("unknown decoration %q", name)
	}
	out := make([]uint32, len(params))
	for i, p := range params {
		v, err := decorationParam(p)
		if err != nil {
			return 0, nil, err
		}
		out[i] = v
	}
	return d, out, nil
}
