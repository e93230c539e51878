package binding

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultModuleName is the import module guests use for the world functions.
const DefaultModuleName = "lilv_world"

// DefaultMaxKeyLength bounds option keys read from guest memory.
const DefaultMaxKeyLength = 4096

// WasmConfig holds configuration for the wazero host module.
type WasmConfig struct {
	// ModuleName is the host module name (default: "lilv_world").
	ModuleName string

	// MaxKeyLength limits option keys read from guest memory.
	MaxKeyLength uint32
}

// WasmOption configures the host module.
type WasmOption func(*WasmConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) WasmOption {
	return func(c *WasmConfig) {
		c.ModuleName = name
	}
}

// WithMaxKeyLength sets the maximum option key length.
func WithMaxKeyLength(n uint32) WasmOption {
	return func(c *WasmConfig) {
		c.MaxKeyLength = n
	}
}

func defaultWasmConfig() WasmConfig {
	return WasmConfig{
		ModuleName:   DefaultModuleName,
		MaxKeyLength: DefaultMaxKeyLength,
	}
}

// NewHostModuleBuilder returns a builder exporting:
//
//	world_new() -> i64
//	world_set_option(world i64, key_ptr i32, key_len i32, node i64) -> i32
//	world_get_node(world i64, index i32) -> i64
//	world_destroy(world i64) -> i32
//
// i64 results are a handle or ref when non-negative and a Code otherwise; i32
// results are a Code.
func (h *Host) NewHostModuleBuilder(r wazero.Runtime, opts ...WasmOption) wazero.HostModuleBuilder {
	cfg := defaultWasmConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	i32, i64 := api.ValueTypeI32, api.ValueTypeI64
	builder := r.NewHostModuleBuilder(cfg.ModuleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmWorldNew), nil, []api.ValueType{i64}).
		Export("world_new")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			h.wasmWorldSetOption(ctx, mod, stack, cfg.MaxKeyLength)
		}), []api.ValueType{i64, i32, i32, i64}, []api.ValueType{i32}).
		WithParameterNames("world", "key_ptr", "key_len", "node").
		Export("world_set_option")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmWorldGetNode), []api.ValueType{i64, i32}, []api.ValueType{i64}).
		WithParameterNames("world", "index").
		Export("world_get_node")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.wasmWorldDestroy), []api.ValueType{i64}, []api.ValueType{i32}).
		WithParameterNames("world").
		Export("world_destroy")

	return builder
}

// Instantiate registers the host module with r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime, opts ...WasmOption) (api.Module, error) {
	return h.NewHostModuleBuilder(r, opts...).Instantiate(ctx)
}

func (h *Host) wasmWorldNew(ctx context.Context, _ api.Module, stack []uint64) {
	handle, err := h.WorldNew(ctx)
	if err != nil {
		stack[0] = api.EncodeI64(int64(CodeOf(err)))
		return
	}
	stack[0] = uint64(handle)
}

func (h *Host) wasmWorldSetOption(ctx context.Context, mod api.Module, stack []uint64, maxKeyLength uint32) {
	handle := WorldHandle(stack[0])
	ptr, length := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	ref := NodeRef(stack[3])

	if length > maxKeyLength {
		h.log.Warn(ctx, "option key exceeds limit", "length", length, "max", maxKeyLength)
		stack[0] = api.EncodeI32(int32(CodeInvalidArgument))
		return
	}
	var mem api.Memory
	if mod != nil {
		mem = mod.Memory()
	}
	if mem == nil {
		stack[0] = api.EncodeI32(int32(CodeInvalidArgument))
		return
	}
	key, ok := mem.Read(ptr, length)
	if !ok {
		h.log.Warn(ctx, "option key outside guest memory", "ptr", ptr, "length", length)
		stack[0] = api.EncodeI32(int32(CodeInvalidArgument))
		return
	}

	err := h.WorldSetOption(ctx, handle, string(key), ref)
	stack[0] = api.EncodeI32(int32(CodeOf(err)))
}

func (h *Host) wasmWorldGetNode(ctx context.Context, _ api.Module, stack []uint64) {
	handle := WorldHandle(stack[0])
	index := int(api.DecodeI32(stack[1]))

	ref, err := h.WorldGetNode(ctx, handle, index)
	if err != nil {
		stack[0] = api.EncodeI64(int64(CodeOf(err)))
		return
	}
	stack[0] = uint64(ref)
}

func (h *Host) wasmWorldDestroy(ctx context.Context, _ api.Module, stack []uint64) {
	err := h.WorldDestroy(ctx, WorldHandle(stack[0]))
	stack[0] = api.EncodeI32(int32(CodeOf(err)))
}
