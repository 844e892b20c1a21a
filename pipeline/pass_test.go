package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmaengine/lightningspv/reflection"
	"github.com/plasmaengine/lightningspv/spirv"
	"github.com/plasmaengine/lightningspv/spv"
)

func emitted(t *testing.T) Result {
	t.Helper()
	lib := testLibrary()
	h, ok := lib.FindType("Shader")
	require.True(t, ok)
	res, err := spirv.NewBackend(spirv.DefaultOptions()).TranslateType(lib, h)
	require.NoError(t, err)
	return Result{ByteStream: res.Bytes(), Reflection: res.Reflection()}
}

func decode(t *testing.T, data []byte) (spirv.Header, []spirv.Instruction) {
	t.Helper()
	words, err := spirv.BytesToWords(data)
	require.NoError(t, err)
	h, insts, err := spirv.Decode(words)
	require.NoError(t, err)
	return h, insts
}

func count(insts []spirv.Instruction, op spv.Op) int {
	n := 0
	for _, inst := range insts {
		if inst.Opcode == op {
			n++
		}
	}
	return n
}

func TestIdentity(t *testing.T) {
	in := emitted(t)
	in.Reflection.SpecializationConstants = map[string]int{"Scale": 1}

	out, err := Identity{}.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.ByteStream, out.ByteStream)
	assert.Equal(t, in.Reflection, out.Reflection)

	out.ByteStream[0] ^= 0xFF
	out.Reflection.SpecializationConstants["Scale"] = 7
	assert.Equal(t, spv.MagicNumber, mustHeader(t, in.ByteStream).Magic, "input bytes are not shared")
	assert.Equal(t, 1, in.Reflection.SpecializationConstants["Scale"])
}

func mustHeader(t *testing.T, data []byte) spirv.Header {
	t.Helper()
	h, _ := decode(t, data)
	return h
}

func TestStripDebug(t *testing.T) {
	in := emitted(t)
	inHeader, inInsts := decode(t, in.ByteStream)
	require.NotZero(t, count(inInsts, spv.OpName))
	require.NotZero(t, count(inInsts, spv.OpSource))

	out, err := StripDebug{}.Run(context.Background(), in)
	require.NoError(t, err)
	outHeader, outInsts := decode(t, out.ByteStream)

	assert.Equal(t, inHeader, outHeader)
	assert.Zero(t, count(outInsts, spv.OpName))
	assert.Zero(t, count(outInsts, spv.OpSource))
	assert.Equal(t, len(inInsts)-count(inInsts, spv.OpName)-count(inInsts, spv.OpSource), len(outInsts))
	for _, op := range []spv.Op{spv.OpCapability, spv.OpEntryPoint, spv.OpFunction, spv.OpFunctionEnd} {
		assert.Equal(t, count(inInsts, op), count(outInsts, op), "%s", op)
	}
	assert.Equal(t, in.Reflection, out.Reflection)
}

func TestStripDebug_Malformed(t *testing.T) {
	_, err := StripDebug{}.Run(context.Background(), Result{ByteStream: []byte{1, 2, 3}})
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	assert.Equal(t, []string{"identity", "strip-debug"}, BuiltinNames())
	for _, name := range BuiltinNames() {
		p, err := Builtin(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}

	_, err := Builtin("optimize")
	assert.True(t, errors.Is(err, ErrUnknownPass))
}

func TestPassError(t *testing.T) {
	err := &PassError{Pass: "strip-debug", Index: 3, Err: ErrEmptyOutput}
	assert.Equal(t, "pipeline: pass 3 (strip-debug): pipeline: no shader bytecode output", err.Error())
	assert.True(t, errors.Is(err, ErrEmptyOutput))
}

func TestResult_ReflectionIsolation(t *testing.T) {
	in := Result{ByteStream: []byte{1, 2, 3, 4}, Reflection: reflection.StageReflection{
		Uniforms: []reflection.StageResource{{ResourceData: reflection.ResourceData{InstanceName: "Material"}}},
	}}
	out, err := Identity{}.Run(context.Background(), in)
	require.NoError(t, err)
	out.Reflection.Uniforms[0].InstanceName = "Renamed"
	assert.Equal(t, "Material", in.Reflection.Uniforms[0].InstanceName)
}
