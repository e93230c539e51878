package lilv

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"unsafe"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/multierr"

	"github.com/gramotor/lilv-go/pkg/lilv/logging"
)

// World represents one native lilv world and the nodes cached for it.
//
// Memory Management:
// Worlds must be released by calling Close() when no longer needed. A
// cleanup is registered as a safety net and releases the same resources
// exactly once after the World and every Node it handed out have become
// unreachable.
//
// Example:
//
//	w, err := lilv.NewWorld()
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
type World struct {
	s       *state
	nodes   [NumIdentifiers]*Node
	cleanup runtime.Cleanup
}

// state owns the native resources. It holds no reference to World or Node,
// so the cleanup attached to World can run once both are unreachable.
type state struct {
	native Native
	ptr    unsafe.Pointer
	nodes  [NumIdentifiers]unsafe.Pointer
	log    logging.Logger
	obs    Observer
}

// NewWorld creates an empty world using the default configuration.
func NewWorld(opts ...Option) (*World, error) {
	return NewWorldWithConfig(context.Background(), Config{}, opts...)
}

// NewWorldWithConfig creates a world and performs the loading steps cfg asks
// for. The native constructor may block while lilv inspects its environment;
// no lock is held across it.
//
// If any step after construction fails, the partially built world is
// released before the error is returned.
func NewWorldWithConfig(ctx context.Context, cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ptr, err := o.native.NewWorld()
	if err != nil {
		return nil, newError("new", fmt.Errorf("%w: %w", ErrInitialization, err), "")
	}
	if ptr == nil {
		return nil, newError("new", ErrInitialization, "native constructor returned null")
	}

	w := &World{s: &state{
		native: o.native,
		ptr:    ptr,
		log:    o.logger,
		obs:    o.observer,
	}}
	w.cleanup = runtime.AddCleanup(w, func(s *state) { _ = s.release(context.Background()) }, w.s)
	o.observer.WorldCreated()
	o.logger.Debug(ctx, "world created")

	if err := w.setup(ctx, cfg); err != nil {
		return nil, multierr.Append(err, w.Close())
	}
	return w, nil
}

func (w *World) setup(ctx context.Context, cfg Config) error {
	if cfg.LoadAll {
		if err := w.LoadAll(); err != nil {
			return err
		}
	}
	for _, dir := range cfg.Bundles {
		if err := w.LoadBundle(dir); err != nil {
			return err
		}
	}
	for _, id := range cfg.preloadIdentifiers() {
		if _, err := w.Node(id); err != nil {
			return err
		}
	}
	w.s.log.Debug(ctx, "world configured",
		"load_all", cfg.LoadAll,
		"bundles", len(cfg.Bundles),
		"preloaded", w.Cached(),
	)
	return nil
}

// live returns the native state or ErrInvalidHandle when the world is closed.
func (w *World) live(op string) (*state, error) {
	if !w.Alive() {
		return nil, newError(op, ErrInvalidHandle, "world is closed")
	}
	return w.s, nil
}

// Node returns the cached node for id, materializing it on first use.
//
// Identifiers outside the table fail with ErrIndexOutOfRange before any native
// call. A native failure leaves the slot empty and returns ErrNodeResolution;
// calling again retries.
func (w *World) Node(id Identifier) (*Node, error) {
	if !id.Valid() {
		return nil, newError("node", ErrIndexOutOfRange, fmt.Sprintf("index %d not in [0,%d)", int(id), NumIdentifiers))
	}
	s, err := w.live("node")
	if err != nil {
		return nil, err
	}

	if n := w.nodes[id]; n != nil {
		s.obs.NodeCacheHit(id)
		return n, nil
	}

	ptr := s.native.NewURI(s.ptr, id.URI())
	runtime.KeepAlive(w)
	if ptr == nil {
		s.obs.NodeResolutionFailed(id)
		return nil, newError("node", ErrNodeResolution, id.String())
	}

	n := &Node{owner: w, id: id}
	s.nodes[id] = ptr
	w.nodes[id] = n
	s.obs.NodeMaterialized(id)
	s.log.Debug(context.Background(), "node materialized", "identifier", id.String())
	return n, nil
}

// Lookup returns the node cached for id without materializing it. It reports
// false for empty slots, out-of-range ids and closed worlds.
func (w *World) Lookup(id Identifier) (*Node, bool) {
	if !id.Valid() || !w.Alive() {
		return nil, false
	}
	n := w.nodes[id]
	return n, n != nil
}

// NodeWithRetry calls Node until it succeeds, retrying only resolution
// failures on the schedule of b. A nil b uses an exponential backoff.
// Index and handle errors are returned immediately.
func (w *World) NodeWithRetry(ctx context.Context, id Identifier, b backoff.BackOff) (*Node, error) {
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}
	return backoff.RetryWithData(func() (*Node, error) {
		n, err := w.Node(id)
		if err != nil && !errors.Is(err, ErrNodeResolution) {
			return nil, backoff.Permanent(err)
		}
		return n, err
	}, backoff.WithContext(b, ctx))
}

// SetOption forwards key and the value node to lilv_world_set_option. The
// node must be alive and owned by w. The node cache is not touched.
func (w *World) SetOption(key string, value *Node) error {
	s, err := w.live("set_option")
	if err != nil {
		return err
	}
	if !w.owns(value) {
		return newError("set_option", ErrInvalidHandle, "value node is not owned by this world")
	}
	s.native.SetOption(s.ptr, key, s.nodes[value.id])
	runtime.KeepAlive(w)
	return nil
}

// LoadAll loads every bundle on the LV2 search path.
func (w *World) LoadAll() error {
	s, err := w.live("load_all")
	if err != nil {
		return err
	}
	s.native.LoadAll(s.ptr)
	runtime.KeepAlive(w)
	return nil
}

// LoadBundle loads the bundle in dir. The bundle URI node is created for the
// call and freed before returning; it never enters the cache.
func (w *World) LoadBundle(dir string) error {
	s, err := w.live("load_bundle")
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return newError("load_bundle", err, dir)
	}
	path := filepath.ToSlash(abs)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	uri := (&url.URL{Scheme: "file", Path: path}).String()

	bundle := s.native.NewURI(s.ptr, uri)
	if bundle == nil {
		runtime.KeepAlive(w)
		return newError("load_bundle", ErrNodeResolution, uri)
	}
	s.native.LoadBundle(s.ptr, bundle)
	err = s.native.FreeNode(bundle)
	runtime.KeepAlive(w)
	if err != nil {
		return newError("load_bundle", err, uri)
	}
	return nil
}

// PluginCount returns how many plugins the world has discovered.
func (w *World) PluginCount() (int, error) {
	s, err := w.live("plugin_count")
	if err != nil {
		return 0, err
	}
	n := s.native.PluginCount(s.ptr)
	runtime.KeepAlive(w)
	return n, nil
}

// Cached returns the number of populated node slots.
func (w *World) Cached() int {
	if w == nil {
		return 0
	}
	count := 0
	for _, n := range w.nodes {
		if n != nil {
			count++
		}
	}
	return count
}

// Alive reports whether the world has not been closed.
func (w *World) Alive() bool {
	return w != nil && w.s != nil && w.s.ptr != nil
}

// Ptr returns the native world pointer.
func (w *World) Ptr() (unsafe.Pointer, error) {
	s, err := w.live("ptr")
	if err != nil {
		return nil, err
	}
	return s.ptr, nil
}

// Close frees every cached node, then the native world. Free failures do not
// stop the teardown; they are combined and returned once everything was
// attempted. After Close the World and all of its Nodes are invalid. Calling
// Close again is a no-op.
func (w *World) Close() error {
	if !w.Alive() {
		return nil
	}
	w.cleanup.Stop()
	err := w.s.release(context.Background())
	w.nodes = [NumIdentifiers]*Node{}
	runtime.KeepAlive(w)
	return err
}

func (s *state) release(ctx context.Context) error {
	var err error
	released := 0
	for i, ptr := range s.nodes {
		if ptr == nil {
			continue
		}
		if ferr := s.native.FreeNode(ptr); ferr != nil {
			err = multierr.Append(err, newError("close", ferr, Identifier(i).String()))
		}
		s.nodes[i] = nil
		released++
	}
	if ferr := s.native.FreeWorld(s.ptr); ferr != nil {
		err = multierr.Append(err, newError("close", ferr, "world"))
	}
	s.ptr = nil

	s.obs.WorldDestroyed(released)
	if err != nil {
		s.log.Error(ctx, "world teardown reported failures", "nodes", released, "error", err)
		return err
	}
	s.log.Debug(ctx, "world destroyed", "nodes", released)
	return nil
}

// owns reports whether n is a live node cached by w.
func (w *World) owns(n *Node) bool {
	return n != nil && n.owner == w && w.Alive() && n.id.Valid() && w.nodes[n.id] == n
}
