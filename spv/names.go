package spv

import "strconv"

// Name tables used by String methods and the disassembler.
var opNames = map[Op]string{
	OpNop:                    "OpNop",
	OpUndef:                  "OpUndef",
	OpSourceContinued:        "OpSourceContinued",
	OpSource:                 "OpSource",
	OpSourceExtension:        "OpSourceExtension",
	OpName:                   "OpName",
	OpMemberName:             "OpMemberName",
	OpString:                 "OpString",
	OpLine:                   "OpLine",
	OpExtension:              "OpExtension",
	OpExtInstImport:          "OpExtInstImport",
	OpExtInst:                "OpExtInst",
	OpMemoryModel:            "OpMemoryModel",
	OpEntryPoint:             "OpEntryPoint",
	OpExecutionMode:          "OpExecutionMode",
	OpCapability:             "OpCapability",
	OpTypeVoid:               "OpTypeVoid",
	OpTypeBool:               "OpTypeBool",
	OpTypeInt:                "OpTypeInt",
	OpTypeFloat:              "OpTypeFloat",
	OpTypeVector:             "OpTypeVector",
	OpTypeMatrix:             "OpTypeMatrix",
	OpTypeImage:              "OpTypeImage",
	OpTypeSampler:            "OpTypeSampler",
	OpTypeSampledImage:       "OpTypeSampledImage",
	OpTypeArray:              "OpTypeArray",
	OpTypeRuntimeArray:       "OpTypeRuntimeArray",
	OpTypeStruct:             "OpTypeStruct",
	OpTypePointer:            "OpTypePointer",
	OpTypeFunction:           "OpTypeFunction",
	OpConstantTrue:           "OpConstantTrue",
	OpConstantFalse:          "OpConstantFalse",
	OpConstant:               "OpConstant",
	OpConstantComposite:      "OpConstantComposite",
	OpConstantNull:           "OpConstantNull",
	OpSpecConstantTrue:       "OpSpecConstantTrue",
	OpSpecConstantFalse:      "OpSpecConstantFalse",
	OpSpecConstant:           "OpSpecConstant",
	OpSpecConstantComposite:  "OpSpecConstantComposite",
	OpSpecConstantOp:         "OpSpecConstantOp",
	OpFunction:               "OpFunction",
	OpFunctionParameter:      "OpFunctionParameter",
	OpFunctionEnd:            "OpFunctionEnd",
	OpFunctionCall:           "OpFunctionCall",
	OpVariable:               "OpVariable",
	OpImageTexelPointer:      "OpImageTexelPointer",
	OpLoad:                   "OpLoad",
	OpStore:                  "OpStore",
	OpCopyMemory:             "OpCopyMemory",
	OpAccessChain:            "OpAccessChain",
	OpArrayLength:            "OpArrayLength",
	OpDecorate:               "OpDecorate",
	OpMemberDecorate:         "OpMemberDecorate",
	OpVectorExtractDynamic:   "OpVectorExtractDynamic",
	OpVectorInsertDynamic:    "OpVectorInsertDynamic",
	OpVectorShuffle:          "OpVectorShuffle",
	OpCompositeConstruct:     "OpCompositeConstruct",
	OpCompositeExtract:       "OpCompositeExtract",
	OpCompositeInsert:        "OpCompositeInsert",
	OpCopyObject:             "OpCopyObject",
	OpTranspose:              "OpTranspose",
	OpSampledImage:           "OpSampledImage",
	OpImageSampleImplicitLod: "OpImageSampleImplicitLod",
	OpImageSampleExplicitLod: "OpImageSampleExplicitLod",
	OpImageFetch:             "OpImageFetch",
	OpImageRead:              "OpImageRead",
	OpImageWrite:             "OpImageWrite",
	OpImage:                  "OpImage",
	OpImageQuerySizeLod:      "OpImageQuerySizeLod",
	OpImageQuerySize:         "OpImageQuerySize",
	OpImageQueryLod:          "OpImageQueryLod",
	OpImageQueryLevels:       "OpImageQueryLevels",
	OpImageQuerySamples:      "OpImageQuerySamples",
	OpConvertFToU:            "OpConvertFToU",
	OpConvertFToS:            "OpConvertFToS",
	OpConvertSToF:            "OpConvertSToF",
	OpConvertUToF:            "OpConvertUToF",
	OpBitcast:                "OpBitcast",
	OpSNegate:                "OpSNegate",
	OpFNegate:                "OpFNegate",
	OpIAdd:                   "OpIAdd",
	OpFAdd:                   "OpFAdd",
	OpISub:                   "OpISub",
	OpFSub:                   "OpFSub",
	OpIMul:                   "OpIMul",
	OpFMul:                   "OpFMul",
	OpUDiv:                   "OpUDiv",
	OpSDiv:                   "OpSDiv",
	OpFDiv:                   "OpFDiv",
	OpUMod:                   "OpUMod",
	OpSRem:                   "OpSRem",
	OpSMod:                   "OpSMod",
	OpFRem:                   "OpFRem",
	OpFMod:                   "OpFMod",
	OpVectorTimesScalar:      "OpVectorTimesScalar",
	OpMatrixTimesScalar:      "OpMatrixTimesScalar",
	OpVectorTimesMatrix:      "OpVectorTimesMatrix",
	OpMatrixTimesVector:      "OpMatrixTimesVector",
	OpMatrixTimesMatrix:      "OpMatrixTimesMatrix",
	OpOuterProduct:           "OpOuterProduct",
	OpDot:                    "OpDot",
	OpAny:                    "OpAny",
	OpAll:                    "OpAll",
	OpIsNan:                  "OpIsNan",
	OpIsInf:                  "OpIsInf",
	OpLogicalEqual:           "OpLogicalEqual",
	OpLogicalNotEqual:        "OpLogicalNotEqual",
	OpLogicalOr:              "OpLogicalOr",
	OpLogicalAnd:             "OpLogicalAnd",
	OpLogicalNot:             "OpLogicalNot",
	OpSelect:                 "OpSelect",
	OpIEqual:                 "OpIEqual",
	OpINotEqual:              "OpINotEqual",
	OpUGreaterThan:           "OpUGreaterThan",
	OpSGreaterThan:           "OpSGreaterThan",
	OpUGreaterThanEqual:      "OpUGreaterThanEqual",
	OpSGreaterThanEqual:      "OpSGreaterThanEqual",
	OpULessThan:              "OpULessThan",
	OpSLessThan:              "OpSLessThan",
	OpULessThanEqual:         "OpULessThanEqual",
	OpSLessThanEqual:         "OpSLessThanEqual",
	OpFOrdEqual:              "OpFOrdEqual",
	OpFUnordEqual:            "OpFUnordEqual",
	OpFOrdNotEqual:           "OpFOrdNotEqual",
	OpFUnordNotEqual:         "OpFUnordNotEqual",
	OpFOrdLessThan:           "OpFOrdLessThan",
	OpFUnordLessThan:         "OpFUnordLessThan",
	OpFOrdGreaterThan:        "OpFOrdGreaterThan",
	OpFUnordGreaterThan:      "OpFUnordGreaterThan",
	OpFOrdLessThanEqual:      "OpFOrdLessThanEqual",
	OpFUnordLessThanEqual:    "OpFUnordLessThanEqual",
	OpFOrdGreaterThanEqual:   "OpFOrdGreaterThanEqual",
	OpFUnordGreaterThanEqual: "OpFUnordGreaterThanEqual",
	OpShiftRightLogical:      "OpShiftRightLogical",
	OpShiftRightArithmetic:   "OpShiftRightArithmetic",
	OpShiftLeftLogical:       "OpShiftLeftLogical",
	OpBitwiseOr:              "OpBitwiseOr",
	OpBitwiseXor:             "OpBitwiseXor",
	OpBitwiseAnd:             "OpBitwiseAnd",
	OpNot:                    "OpNot",
	OpDPdx:                   "OpDPdx",
	OpDPdy:                   "OpDPdy",
	OpFwidth:                 "OpFwidth",
	OpDPdxFine:               "OpDPdxFine",
	OpDPdyFine:               "OpDPdyFine",
	OpFwidthFine:             "OpFwidthFine",
	OpDPdxCoarse:             "OpDPdxCoarse",
	OpDPdyCoarse:             "OpDPdyCoarse",
	OpFwidthCoarse:           "OpFwidthCoarse",
	OpEmitVertex:             "OpEmitVertex",
	OpEndPrimitive:           "OpEndPrimitive",
	OpControlBarrier:         "OpControlBarrier",
	OpMemoryBarrier:          "OpMemoryBarrier",
	OpPhi:                    "OpPhi",
	OpLoopMerge:              "OpLoopMerge",
	OpSelectionMerge:         "OpSelectionMerge",
	OpLabel:                  "OpLabel",
	OpBranch:                 "OpBranch",
	OpBranchConditional:      "OpBranchConditional",
	OpSwitch:                 "OpSwitch",
	OpKill:                   "OpKill",
	OpReturn:                 "OpReturn",
	OpReturnValue:            "OpReturnValue",
	OpUnreachable:            "OpUnreachable",
}

var capabilityNames = map[Capability]string{
	CapabilityMatrix:                      "Matrix",
	CapabilityShader:                      "Shader",
	CapabilityGeometry:                    "Geometry",
	CapabilityTessellation:                "Tessellation",
	CapabilityFloat16:                     "Float16",
	CapabilityFloat64:                     "Float64",
	CapabilityInt64:                       "Int64",
	CapabilityImageGatherExtended:         "ImageGatherExtended",
	CapabilityStorageImageMultisample:     "StorageImageMultisample",
	CapabilityClipDistance:                "ClipDistance",
	CapabilityCullDistance:                "CullDistance",
	CapabilityImageCubeArray:              "ImageCubeArray",
	CapabilitySampleRateShading:           "SampleRateShading",
	CapabilitySampled1D:                   "Sampled1D",
	CapabilityImage1D:                     "Image1D",
	CapabilitySampledBuffer:               "SampledBuffer",
	CapabilityImageQuery:                  "ImageQuery",
	CapabilityDerivativeControl:           "DerivativeControl",
	CapabilityStorageImageExtendedFormats: "StorageImageExtendedFormats",
	CapabilityMultiViewport:               "MultiViewport",
}

var decorationNames = map[Decoration]string{
	DecorationRelaxedPrecision: "RelaxedPrecision",
	DecorationSpecID:           "SpecId",
	DecorationBlock:            "Block",
	DecorationBufferBlock:      "BufferBlock",
	DecorationRowMajor:         "RowMajor",
	DecorationColMajor:         "ColMajor",
	DecorationArrayStride:      "ArrayStride",
	DecorationMatrixStride:     "MatrixStride",
	DecorationBuiltIn:          "BuiltIn",
	DecorationNoPerspective:    "NoPerspective",
	DecorationFlat:             "Flat",
	DecorationCentroid:         "Centroid",
	DecorationNonWritable:      "NonWritable",
	DecorationNonReadable:      "NonReadable",
	DecorationLocation:         "Location",
	DecorationComponent:        "Component",
	DecorationIndex:            "Index",
	DecorationBinding:          "Binding",
	DecorationDescriptorSet:    "DescriptorSet",
	DecorationOffset:           "Offset",
}

var builtInNames = map[BuiltIn]string{
	BuiltInPosition:             "Position",
	BuiltInPointSize:            "PointSize",
	BuiltInClipDistance:         "ClipDistance",
	BuiltInCullDistance:         "CullDistance",
	BuiltInVertexID:             "VertexId",
	BuiltInInstanceID:           "InstanceId",
	BuiltInPrimitiveID:          "PrimitiveId",
	BuiltInInvocationID:         "InvocationId",
	BuiltInLayer:                "Layer",
	BuiltInViewportIndex:        "ViewportIndex",
	BuiltInFragCoord:            "FragCoord",
	BuiltInPointCoord:           "PointCoord",
	BuiltInFrontFacing:          "FrontFacing",
	BuiltInSampleID:             "SampleId",
	BuiltInFragDepth:            "FragDepth",
	BuiltInNumWorkgroups:        "NumWorkgroups",
	BuiltInWorkgroupID:          "WorkgroupId",
	BuiltInLocalInvocationID:    "LocalInvocationId",
	BuiltInGlobalInvocationID:   "GlobalInvocationId",
	BuiltInLocalInvocationIndex: "LocalInvocationIndex",
	BuiltInVertexIndex:          "VertexIndex",
	BuiltInInstanceIndex:        "InstanceIndex",
}

var storageClassNames = map[StorageClass]string{
	StorageClassUniformConstant: "UniformConstant",
	StorageClassInput:           "Input",
	StorageClassUniform:         "Uniform",
	StorageClassOutput:          "Output",
	StorageClassWorkgroup:       "Workgroup",
	StorageClassCrossWorkgroup:  "CrossWorkgroup",
	StorageClassPrivate:         "Private",
	StorageClassFunction:        "Function",
	StorageClassGeneric:         "Generic",
	StorageClassPushConstant:    "PushConstant",
	StorageClassAtomicCounter:   "AtomicCounter",
	StorageClassImage:           "Image",
	StorageClassStorageBuffer:   "StorageBuffer",
}

var executionModelNames = map[ExecutionModel]string{
	ExecutionModelVertex:                 "Vertex",
	ExecutionModelTessellationControl:    "TessellationControl",
	ExecutionModelTessellationEvaluation: "TessellationEvaluation",
	ExecutionModelGeometry:               "Geometry",
	ExecutionModelFragment:               "Fragment",
	ExecutionModelGLCompute:              "GLCompute",
}

var executionModeNames = map[ExecutionMode]string{
	ExecutionModeInvocations:         "Invocations",
	ExecutionModePixelCenterInteger:  "PixelCenterInteger",
	ExecutionModeOriginUpperLeft:     "OriginUpperLeft",
	ExecutionModeOriginLowerLeft:     "OriginLowerLeft",
	ExecutionModeEarlyFragmentTests:  "EarlyFragmentTests",
	ExecutionModeDepthReplacing:      "DepthReplacing",
	ExecutionModeLocalSize:           "LocalSize",
	ExecutionModeInputPoints:         "InputPoints",
	ExecutionModeTriangles:           "Triangles",
	ExecutionModeOutputVertices:      "OutputVertices",
	ExecutionModeOutputPoints:        "OutputPoints",
	ExecutionModeOutputLineStrip:     "OutputLineStrip",
	ExecutionModeOutputTriangleStrip: "OutputTriangleStrip",
}

var opByName = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

// OpByName returns the opcode with the given name, e.g. "OpFAdd".
func OpByName(name string) (Op, bool) {
	op, ok := opByName[name]
	return op, ok
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "Op" + strconv.Itoa(int(o))
}

func (c Capability) String() string {
	return lookup(capabilityNames, c)
}

func (d Decoration) String() string {
	return lookup(decorationNames, d)
}

func (b BuiltIn) String() string {
	return lookup(builtInNames, b)
}

func (s StorageClass) String() string {
	return lookup(storageClassNames, s)
}

func (m ExecutionModel) String() string {
	return lookup(executionModelNames, m)
}

func (m ExecutionMode) String() string {
	return lookup(executionModeNames, m)
}

func lookup[K ~uint32](names map[K]string, v K) string {
	if name, ok := names[v]; ok {
		return name
	}
	return strconv.FormatUint(uint64(v), 10)
}

func reverse[K comparable](names map[K]string) map[string]K {
	m := make(map[string]K, len(names))
	for k, name := range names {
		m[name] = k
	}
	return m
}

var (
	capabilityByName    = reverse(capabilityNames)
	decorationByName    = reverse(decorationNames)
	builtInByName       = reverse(builtInNames)
	storageClassByName  = reverse(storageClassNames)
	executionModeByName = reverse(executionModeNames)
)

// CapabilityByName returns the capability with the given name, e.g. "Shader".
func CapabilityByName(name string) (Capability, bool) {
	c, ok := capabilityByName[name]
	return c, ok
}

// DecorationByName returns the decoration with the given name.
func DecorationByName(name string) (Decoration, bool) {
	d, ok := decorationByName[name]
	return d, ok
}

// BuiltInByName returns the built-in with the given name.
func BuiltInByName(name string) (BuiltIn, bool) {
	b, ok := builtInByName[name]
	return b, ok
}

// StorageClassByName returns the storage class with the given name.
func StorageClassByName(name string) (StorageClass, bool) {
	s, ok := storageClassByName[name]
	return s, ok
}

// ExecutionModeByName returns the execution mode with the given name.
func ExecutionModeByName(name string) (ExecutionMode, bool) {
	m, ok := executionModeByName[name]
	return m, ok
}
