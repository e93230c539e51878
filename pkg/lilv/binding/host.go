package binding

import (
	"context"
	"fmt"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"

	"github.com/gramotor/lilv-go/pkg/lilv"
	"github.com/gramotor/lilv-go/pkg/lilv/logging"
)

const tracerName = "github.com/gramotor/lilv-go/pkg/lilv/binding"

// Host translates boundary calls into World and Node operations.
//
// The registry is safe for concurrent use, but calls addressing the same
// world still need external mutual exclusion, as World itself does not lock.
type Host struct {
	worlds    cmap.ConcurrentMap[WorldHandle, *lilv.World]
	next      atomic.Uint64
	cfg       lilv.Config
	worldOpts []lilv.Option
	log       logging.Logger
	tracer    trace.Tracer
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithNative selects the lilv collaborator used for every world.
func WithNative(n lilv.Native) HostOption {
	return func(h *Host) {
		h.worldOpts = append(h.worldOpts, lilv.WithNative(n))
	}
}

// WithObserver attaches lifecycle hooks to every world.
func WithObserver(obs lilv.Observer) HostOption {
	return func(h *Host) {
		h.worldOpts = append(h.worldOpts, lilv.WithObserver(obs))
	}
}

// WithLogger sets the logger used by the Host and passed to its worlds.
func WithLogger(l logging.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.log = l
			h.worldOpts = append(h.worldOpts, lilv.WithLogger(l))
		}
	}
}

// WithConfig sets the configuration applied to every new world.
func WithConfig(cfg lilv.Config) HostOption {
	return func(h *Host) {
		h.cfg = cfg
	}
}

// WithTracer records spans for world creation and destruction.
func WithTracer(t trace.Tracer) HostOption {
	return func(h *Host) {
		if t != nil {
			h.tracer = t
		}
	}
}

// NewHost returns an empty Host.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		worlds: cmap.NewWithCustomShardingFunction[WorldHandle, *lilv.World](shardHandle),
		log:    logging.Discard(),
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func invalidWorld(h WorldHandle) error {
	return fmt.Errorf("%w: world handle %d", lilv.ErrInvalidHandle, uint64(h))
}

func (h *Host) lookup(handle WorldHandle) (*lilv.World, error) {
	w, ok := h.worlds.Get(handle)
	if !ok {
		return nil, invalidWorld(handle)
	}
	return w, nil
}

// WorldNew creates and registers a world. The native constructor runs before
// the registry is touched, so no registry lock is held while it blocks.
func (h *Host) WorldNew(ctx context.Context) (WorldHandle, error) {
	ctx, span := h.tracer.Start(ctx, "lilv.world_new")
	defer span.End()

	if err := h.cfg.Validate(); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, CodeInvalidArgument.String())
		return 0, err
	}

	w, err := lilv.NewWorldWithConfig(ctx, h.cfg, h.worldOpts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, CodeOf(err).String())
		return 0, err
	}

	handle := WorldHandle(h.next.Add(1))
	h.worlds.Set(handle, w)
	span.SetAttributes(attribute.Int64("lilv.world", int64(handle)))
	h.log.Debug(ctx, "world registered", "handle", uint64(handle))
	return handle, nil
}

// WorldGetNode returns a ref to the node cached at index, materializing it on
// first use.
func (h *Host) WorldGetNode(ctx context.Context, handle WorldHandle, index int) (NodeRef, error) {
	id := lilv.Identifier(index)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: index %d", lilv.ErrIndexOutOfRange, index)
	}
	w, err := h.lookup(handle)
	if err != nil {
		return 0, err
	}
	n, err := w.Node(id)
	if err != nil {
		return 0, err
	}
	return makeNodeRef(handle, n.Identifier()), nil
}

// WorldSetOption forwards key and the node named by ref to the world. The ref
// must belong to the same, live world.
func (h *Host) WorldSetOption(ctx context.Context, handle WorldHandle, key string, ref NodeRef) error {
	w, err := h.lookup(handle)
	if err != nil {
		return err
	}
	owner, err := h.lookup(ref.World())
	if err != nil {
		return fmt.Errorf("%w: node ref %d", lilv.ErrInvalidHandle, uint64(ref))
	}
	node, ok := owner.Lookup(ref.Identifier())
	if !ok {
		return fmt.Errorf("%w: node ref %d", lilv.ErrInvalidHandle, uint64(ref))
	}
	return w.SetOption(key, node)
}

// WorldDestroy unregisters and closes the world. The world leaves the
// registry before the native call, so a concurrent Close or a repeated
// destroy never releases it twice.
func (h *Host) WorldDestroy(ctx context.Context, handle WorldHandle) error {
	ctx, span := h.tracer.Start(ctx, "lilv.world_destroy",
		trace.WithAttributes(attribute.Int64("lilv.world", int64(handle))))
	defer span.End()

	w, ok := h.worlds.Pop(handle)
	if !ok {
		err := invalidWorld(handle)
		span.SetStatus(codes.Error, CodeInvalidHandle.String())
		return err
	}
	nodes := w.Cached()
	if err := w.Close(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, CodeInternal.String())
		h.log.Error(ctx, "world teardown failed", "handle", uint64(handle), "error", err)
		return err
	}
	h.log.Debug(ctx, "world unregistered", "handle", uint64(handle), "nodes", nodes)
	return nil
}

// Live returns the number of registered worlds.
func (h *Host) Live() int {
	return h.worlds.Count()
}

// Close destroys every world still registered and reports all teardown
// failures together.
func (h *Host) Close() error {
	var err error
	for _, handle := range h.worlds.Keys() {
		w, ok := h.worlds.Pop(handle)
		if !ok {
			continue
		}
		err = multierr.Append(err, w.Close())
	}
	return err
}
