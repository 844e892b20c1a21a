// Package irdoc reads IR libraries from YAML documents.
//
// A document declares imports, types, constants, globals, functions and
// entry points, each section in dependency order. Operands of instructions
// and decoration targets are written as reference strings:
//
//	type:Real4          a type by name
//	op:color            a constant, global, parameter, local or result id
//	fn:main             a function
//	block:main/loop     a block of a function; block:loop inside the function
//	import:GLSL.std.450 an extended instruction set
//	lit:int:-3          a literal (int, uint, float or bool)
//
// Opcodes, storage classes, decorations, built-ins, execution modes and
// capabilities are written by their SPIR-V names.
package irdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/plasmaengine/lightningspv/reflection"
)

// Document is the YAML form of a library.
type Document struct {
	Name        string         `yaml:"name"`
	Imports     []string       `yaml:"imports"`
	Types       []TypeDecl     `yaml:"types"`
	Constants   []ConstantDecl `yaml:"constants"`
	Globals     []GlobalDecl   `yaml:"globals"`
	Functions   []FunctionDecl `yaml:"functions"`
	EntryPoints []EntryDecl    `yaml:"entry_points"`
}

// TypeDecl declares a type. Scalar types (Void, Boolean, Integer,
// UInteger, Real, Sampler) exist implicitly.
type TypeDecl struct {
	// Name is the alias other declarations use. Struct, fragment and image
	// types also carry it into the library.
	Name string `yaml:"name"`

	// Kind is one of vector, matrix, struct, fragment, function, pointer,
	// array, runtime-array, image, sampled-image.
	Kind string `yaml:"kind"`

	// Of is the component, column, element, pointee, image or return type.
	Of string `yaml:"of"`

	// Count is the vector size, matrix column count or array length.
	Count uint32 `yaml:"count"`

	Params  []string     `yaml:"params"`
	Storage string       `yaml:"storage"`
	Members []MemberDecl `yaml:"members"`
	Stage   string       `yaml:"stage"`
	Fields  []FieldDecl  `yaml:"fields"`
	Image   ImageDecl    `yaml:"image"`
}

// MemberDecl is a struct member.
type MemberDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// FieldDecl is a fragment field with its attributes.
type FieldDecl struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Attributes []AttributeDecl `yaml:"attributes"`
}

// AttributeDecl is a field attribute. It may be written as a bare name.
type AttributeDecl struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
}

// UnmarshalYAML accepts either a scalar name or a mapping.
func (a *AttributeDecl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Name = node.Value
		return nil
	}
	type plain AttributeDecl
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = AttributeDecl(p)
	return nil
}

// ImageDecl holds the operands of an image type.
type ImageDecl struct {
	Dim          uint32 `yaml:"dim"`
	Depth        uint32 `yaml:"depth"`
	Arrayed      uint32 `yaml:"arrayed"`
	Multisampled uint32 `yaml:"multisampled"`
	Sampled      uint32 `yaml:"sampled"`
	Format       uint32 `yaml:"format"`
}

// ConstantDecl declares a scalar constant with Value, or a composite with
// Parts naming earlier constants.
type ConstantDecl struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Value string   `yaml:"value"`
	Parts []string `yaml:"parts"`
	Spec  bool     `yaml:"spec"`
}

// GlobalDecl declares a module-scope variable.
type GlobalDecl struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Storage     string `yaml:"storage"`
	Initializer string `yaml:"initializer"`
}

// FunctionDecl declares a function. An abstract function has no blocks.
type FunctionDecl struct {
	Name     string       `yaml:"name"`
	Return   string       `yaml:"return"`
	Params   []MemberDecl `yaml:"params"`
	Abstract bool         `yaml:"abstract"`
	Blocks   []BlockDecl  `yaml:"blocks"`
}

// BlockDecl is a basic block. Kind is empty, selection or loop.
type BlockDecl struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Merge    string       `yaml:"merge"`
	Continue string       `yaml:"continue"`
	Locals   []MemberDecl `yaml:"locals"`
	Ops      []OpDecl     `yaml:"ops"`
}

// OpDecl is one instruction. ID names the result for op: references;
// Name is its debug name.
type OpDecl struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Op   string   `yaml:"op"`
	Type string   `yaml:"type"`
	Args []string `yaml:"args"`
}

// EntryDecl attaches an entry point to a type.
type EntryDecl struct {
	Type               string                      `yaml:"type"`
	Function           string                      `yaml:"function"`
	Stage              string                      `yaml:"stage"`
	Interface          []string                    `yaml:"interface"`
	Variables          []string                    `yaml:"variables"`
	ExecutionModes     []ModeDecl                  `yaml:"execution_modes"`
	Decorations        []DecorationDecl            `yaml:"decorations"`
	MemberDecorations  []MemberDecorationDecl      `yaml:"member_decorations"`
	Capabilities       []string                    `yaml:"capabilities"`
	GlobalsInitializer string                      `yaml:"globals_initializer"`
	LateBound          []LateBindingDecl           `yaml:"late_bound"`
	Reflection         *reflection.StageReflection `yaml:"reflection"`
}

// ModeDecl is an execution mode with literal operands.
type ModeDecl struct {
	Mode   string   `yaml:"mode"`
	Params []uint32 `yaml:"params"`
}

// DecorationDecl decorates a target reference. Params are numbers or
// built-in names.
type DecorationDecl struct {
	Target     string   `yaml:"target"`
	Decoration string   `yaml:"decoration"`
	Params     []string `yaml:"params"`
}

// MemberDecorationDecl decorates a struct member.
type MemberDecorationDecl struct {
	Type       string   `yaml:"type"`
	Member     uint32   `yaml:"member"`
	Decoration string   `yaml:"decoration"`
	Params     []string `yaml:"params"`
}

// LateBindingDecl replaces uses of an abstract function.
type LateBindingDecl struct {
	Placeholder string `yaml:"placeholder"`
	Replacement string `yaml:"replacement"`
}

// Parse decodes a document. Unknown keys are an error.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("irdoc: %w", err)
	}
	return &doc, nil
}
