// Package spv defines the SPIR-V enumerants shared by the IR and the binary
// emitter: opcodes, capabilities, decorations, built-ins, storage classes,
// execution models and execution modes.
//
// Values match the SPIR-V unified specification so that they can be written
// to a word stream verbatim.
package spv

// MagicNumber is the first word of every SPIR-V module.
const MagicNumber uint32 = 0x07230203

// Op is a SPIR-V opcode.
type Op uint16

// SPIR-V opcodes.
const (
	OpNop                    Op = 0
	OpUndef                  Op = 1
	OpSourceContinued        Op = 2
	OpSource                 Op = 3
	OpSourceExtension        Op = 4
	OpName                   Op = 5
	OpMemberName             Op = 6
	OpString                 Op = 7
	OpLine                   Op = 8
	OpExtension              Op = 10
	OpExtInstImport          Op = 11
	OpExtInst                Op = 12
	OpMemoryModel            Op = 14
	OpEntryPoint             Op = 15
	OpExecutionMode          Op = 16
	OpCapability             Op = 17
	OpTypeVoid               Op = 19
	OpTypeBool               Op = 20
	OpTypeInt                Op = 21
	OpTypeFloat              Op = 22
	OpTypeVector             Op = 23
	OpTypeMatrix             Op = 24
	OpTypeImage              Op = 25
	OpTypeSampler            Op = 26
	OpTypeSampledImage       Op = 27
	OpTypeArray              Op = 28
	OpTypeRuntimeArray       Op = 29
	OpTypeStruct             Op = 30
	OpTypePointer            Op = 32
	OpTypeFunction           Op = 33
	OpConstantTrue           Op = 41
	OpConstantFalse          Op = 42
	OpConstant               Op = 43
	OpConstantComposite      Op = 44
	OpConstantNull           Op = 46
	OpSpecConstantTrue       Op = 48
	OpSpecConstantFalse      Op = 49
	OpSpecConstant           Op = 50
	OpSpecConstantComposite  Op = 51
	OpSpecConstantOp         Op = 52
	OpFunction               Op = 54
	OpFunctionParameter      Op = 55
	OpFunctionEnd            Op = 56
	OpFunctionCall           Op = 57
	OpVariable               Op = 59
	OpImageTexelPointer      Op = 60
	OpLoad                   Op = 61
	OpStore                  Op = 62
	OpCopyMemory             Op = 63
	OpAccessChain            Op = 65
	OpArrayLength            Op = 68
	OpDecorate               Op = 71
	OpMemberDecorate         Op = 72
	OpVectorExtractDynamic   Op = 77
	OpVectorInsertDynamic    Op = 78
	OpVectorShuffle          Op = 79
	OpCompositeConstruct     Op = 80
	OpCompositeExtract       Op = 81
	OpCompositeInsert        Op = 82
	OpCopyObject             Op = 83
	OpTranspose              Op = 84
	OpSampledImage           Op = 86
	OpImageSampleImplicitLod Op = 87
	OpImageSampleExplicitLod Op = 88
	OpImageFetch             Op = 95
	OpImageRead              Op = 98
	OpImageWrite             Op = 99
	OpImage                  Op = 100
	OpImageQuerySizeLod      Op = 103
	OpImageQuerySize         Op = 104
	OpImageQueryLod          Op = 105
	OpImageQueryLevels       Op = 106
	OpImageQuerySamples      Op = 107
	OpConvertFToU            Op = 109
	OpConvertFToS            Op = 110
	OpConvertSToF            Op = 111
	OpConvertUToF            Op = 112
	OpBitcast                Op = 124
	OpSNegate                Op = 126
	OpFNegate                Op = 127
	OpIAdd                   Op = 128
	OpFAdd                   Op = 129
	OpISub                   Op = 130
	OpFSub                   Op = 131
	OpIMul                   Op = 132
	OpFMul                   Op = 133
	OpUDiv                   Op = 134
	OpSDiv                   Op = 135
	OpFDiv                   Op = 136
	OpUMod                   Op = 137
	OpSRem                   Op = 138
	OpSMod                   Op = 139
	OpFRem                   Op = 140
	OpFMod                   Op = 141
	OpVectorTimesScalar      Op = 142
	OpMatrixTimesScalar      Op = 143
	OpVectorTimesMatrix      Op = 144
	OpMatrixTimesVector      Op = 145
	OpMatrixTimesMatrix      Op = 146
	OpOuterProduct           Op = 147
	OpDot                    Op = 148
	OpAny                    Op = 154
	OpAll                    Op = 155
	OpIsNan                  Op = 156
	OpIsInf                  Op = 157
	OpLogicalEqual           Op = 164
	OpLogicalNotEqual        Op = 165
	OpLogicalOr              Op = 166
	OpLogicalAnd             Op = 167
	OpLogicalNot             Op = 168
	OpSelect                 Op = 169
	OpIEqual                 Op = 170
	OpINotEqual              Op = 171
	OpUGreaterThan           Op = 172
	OpSGreaterThan           Op = 173
	OpUGreaterThanEqual      Op = 174
	OpSGreaterThanEqual      Op = 175
	OpULessThan              Op = 176
	OpSLessThan              Op = 177
	OpULessThanEqual         Op = 178
	OpSLessThanEqual         Op = 179
	OpFOrdEqual              Op = 180
	OpFUnordEqual            Op = 181
	OpFOrdNotEqual           Op = 182
	OpFUnordNotEqual         Op = 183
	OpFOrdLessThan           Op = 184
	OpFUnordLessThan         Op = 185
	OpFOrdGreaterThan        Op = 186
	OpFUnordGreaterThan      Op = 187
	OpFOrdLessThanEqual      Op = 188
	OpFUnordLessThanEqual    Op = 189
	OpFOrdGreaterThanEqual   Op = 190
	OpFUnordGreaterThanEqual Op = 191
	OpShiftRightLogical      Op = 194
	OpShiftRightArithmetic   Op = 195
	OpShiftLeftLogical       Op = 196
	OpBitwiseOr              Op = 197
	OpBitwiseXor             Op = 198
	OpBitwiseAnd             Op = 199
	OpNot                    Op = 200
	OpDPdx                   Op = 207
	OpDPdy                   Op = 208
	OpFwidth                 Op = 209
	OpDPdxFine               Op = 210
	OpDPdyFine               Op = 211
	OpFwidthFine             Op = 212
	OpDPdxCoarse             Op = 213
	OpDPdyCoarse             Op = 214
	OpFwidthCoarse           Op = 215
	OpEmitVertex             Op = 218
	OpEndPrimitive           Op = 219
	OpControlBarrier         Op = 224
	OpMemoryBarrier          Op = 225
	OpPhi                    Op = 245
	OpLoopMerge              Op = 246
	OpSelectionMerge         Op = 247
	OpLabel                  Op = 248
	OpBranch                 Op = 249
	OpBranchConditional      Op = 250
	OpSwitch                 Op = 251
	OpKill                   Op = 252
	OpReturn                 Op = 253
	OpReturnValue            Op = 254
	OpUnreachable            Op = 255
)

// IsTerminator reports whether the opcode ends a basic block.
func (o Op) IsTerminator() bool {
	switch o {
	case OpBranch, OpBranchConditional, OpSwitch, OpReturn, OpReturnValue,
		OpKill, OpUnreachable:
		return true
	}
	return false
}

// IsConstant reports whether the opcode defines a module-level constant.
func (o Op) IsConstant() bool {
	switch o {
	case OpConstant, OpConstantTrue, OpConstantFalse, OpConstantComposite, OpConstantNull,
		OpSpecConstant, OpSpecConstantTrue, OpSpecConstantFalse, OpSpecConstantComposite,
		OpSpecConstantOp:
		return true
	}
	return false
}

// Capability is a SPIR-V capability.
type Capability uint32

// SPIR-V capabilities.
const (
	CapabilityMatrix                      Capability = 0
	CapabilityShader                      Capability = 1
	CapabilityGeometry                    Capability = 2
	CapabilityTessellation                Capability = 3
	CapabilityFloat16                     Capability = 9
	CapabilityFloat64                     Capability = 10
	CapabilityInt64                       Capability = 11
	CapabilityImageGatherExtended         Capability = 25
	CapabilityStorageImageMultisample     Capability = 27
	CapabilityClipDistance                Capability = 32
	CapabilityCullDistance                Capability = 33
	CapabilityImageCubeArray              Capability = 34
	CapabilitySampleRateShading           Capability = 35
	CapabilitySampled1D                   Capability = 43
	CapabilityImage1D                     Capability = 44
	CapabilitySampledBuffer               Capability = 46
	CapabilityImageQuery                  Capability = 50
	CapabilityDerivativeControl           Capability = 51
	CapabilityStorageImageExtendedFormats Capability = 49
	CapabilityMultiViewport               Capability = 57
)

// Decoration is a SPIR-V decoration.
type Decoration uint32

// SPIR-V decorations.
const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationSpecID           Decoration = 1
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationBuiltIn          Decoration = 11
	DecorationNoPerspective    Decoration = 13
	DecorationFlat             Decoration = 14
	DecorationCentroid         Decoration = 16
	DecorationNonWritable      Decoration = 24
	DecorationNonReadable      Decoration = 25
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationIndex            Decoration = 32
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
)

// BuiltIn is a SPIR-V built-in variable semantic.
type BuiltIn uint32

// SPIR-V built-ins.
const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInVertexID             BuiltIn = 5
	BuiltInInstanceID           BuiltIn = 6
	BuiltInPrimitiveID          BuiltIn = 7
	BuiltInInvocationID         BuiltIn = 8
	BuiltInLayer                BuiltIn = 9
	BuiltInViewportIndex        BuiltIn = 10
	BuiltInFragCoord            BuiltIn = 15
	BuiltInPointCoord           BuiltIn = 16
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleID             BuiltIn = 18
	BuiltInFragDepth            BuiltIn = 22
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupID          BuiltIn = 26
	BuiltInLocalInvocationID    BuiltIn = 27
	BuiltInGlobalInvocationID   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

// StorageClass is a SPIR-V storage class.
type StorageClass uint32

// SPIR-V storage classes.
const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// IsGlobal reports whether variables of this class live at module scope.
func (s StorageClass) IsGlobal() bool {
	return s != StorageClassFunction
}

// ExecutionModel is the pipeline stage of an entry point.
type ExecutionModel uint32

// SPIR-V execution models.
const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
)

// ExecutionMode configures an entry point.
type ExecutionMode uint32

// SPIR-V execution modes.
const (
	ExecutionModeInvocations         ExecutionMode = 0
	ExecutionModePixelCenterInteger  ExecutionMode = 6
	ExecutionModeOriginUpperLeft     ExecutionMode = 7
	ExecutionModeOriginLowerLeft     ExecutionMode = 8
	ExecutionModeEarlyFragmentTests  ExecutionMode = 9
	ExecutionModeDepthReplacing      ExecutionMode = 12
	ExecutionModeLocalSize           ExecutionMode = 17
	ExecutionModeInputPoints         ExecutionMode = 19
	ExecutionModeTriangles           ExecutionMode = 22
	ExecutionModeOutputVertices      ExecutionMode = 26
	ExecutionModeOutputPoints        ExecutionMode = 27
	ExecutionModeOutputLineStrip     ExecutionMode = 28
	ExecutionModeOutputTriangleStrip ExecutionMode = 29
)

// Addressing and memory models. Shaders always use Logical / GLSL450.
const (
	AddressingModelLogical uint32 = 0
	MemoryModelGLSL450     uint32 = 1
)

// Control masks written after function, selection and loop headers.
const (
	FunctionControlNone  uint32 = 0
	SelectionControlNone uint32 = 0
	LoopControlNone      uint32 = 0
)

// SourceLanguageUnknown is written in OpSource; the authoring language has no
// SPIR-V enumerant.
const SourceLanguageUnknown uint32 = 0
