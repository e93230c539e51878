package lilv_test

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/gramotor/lilv-go/pkg/lilv"
	"github.com/gramotor/lilv-go/pkg/lilv/fakelilv"
)

func newFakeWorld(t *testing.T, lib *fakelilv.Lib, opts ...lilv.Option) *lilv.World {
	t.Helper()
	w, err := lilv.NewWorld(append([]lilv.Option{lilv.WithNative(lib)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNodeIsMemoizedAndReleasedOnClose(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	a, err := w.Node(lilv.AudioPort)
	require.NoError(t, err)
	again, err := w.Node(lilv.AudioPort)
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.Equal(t, 1, lib.NodesCreated())
	assert.Equal(t, lilv.AudioPort.URI(), a.URI())
	assert.Equal(t, lilv.AudioPort, a.Identifier())

	require.NoError(t, w.Close())
	assert.Equal(t, 1, lib.NodesFreed())
	assert.Equal(t, 1, lib.WorldsFreed())
	assert.Empty(t, lib.Violations())
}

func TestResolutionFailureIsNotCached(t *testing.T) {
	lib := fakelilv.New()
	lib.FailURI(lilv.MidiEvent.URI(), 1)
	w := newFakeWorld(t, lib)

	require.Equal(t, lilv.Identifier(7), lilv.MidiEvent)

	n, err := w.Node(lilv.MidiEvent)
	require.ErrorIs(t, err, lilv.ErrNodeResolution)
	assert.Nil(t, n)
	assert.Equal(t, 0, w.Cached())

	n, err = w.Node(lilv.MidiEvent)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.True(t, n.Valid())
	assert.Equal(t, 2, lib.URICalls())
	assert.Equal(t, 1, w.Cached())
}

func TestResolutionFailureDoesNotAffectOtherSlots(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	audio, err := w.Node(lilv.AudioPort)
	require.NoError(t, err)

	lib.FailURI(lilv.ControlPort.URI(), 1)
	_, err = w.Node(lilv.ControlPort)
	require.ErrorIs(t, err, lilv.ErrNodeResolution)

	assert.True(t, w.Alive())
	assert.True(t, audio.Valid())
	got, err := w.Node(lilv.AudioPort)
	require.NoError(t, err)
	assert.Same(t, audio, got)
}

func TestSetOptionRejectsNodeFromDestroyedWorld(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	other, err := lilv.NewWorld(lilv.WithNative(lib))
	require.NoError(t, err)
	foreign, err := other.Node(lilv.InputPort)
	require.NoError(t, err)
	require.NoError(t, other.Close())

	err = w.SetOption("some-key", foreign)
	require.ErrorIs(t, err, lilv.ErrInvalidHandle)
	assert.Empty(t, lib.Options())
	assert.Empty(t, lib.Violations())
}

func TestSetOptionRejectsNodeFromLiveWorld(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)
	other := newFakeWorld(t, lib)

	foreign, err := other.Node(lilv.InputPort)
	require.NoError(t, err)

	require.ErrorIs(t, w.SetOption(lilv.OptionFilterLang, foreign), lilv.ErrInvalidHandle)
	require.ErrorIs(t, w.SetOption(lilv.OptionFilterLang, nil), lilv.ErrInvalidHandle)
}

func TestSetOptionForwardsWithoutCacheEffect(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	n, err := w.Node(lilv.ConnectionOptional)
	require.NoError(t, err)

	require.NoError(t, w.SetOption(lilv.OptionDynManifest, n))
	assert.Equal(t, []fakelilv.OptionCall{{Key: lilv.OptionDynManifest, URI: lilv.ConnectionOptional.URI()}}, lib.Options())
	assert.Equal(t, 1, w.Cached())
	assert.Equal(t, 1, lib.NodesCreated())
}

func TestOutOfRangeNeverResolves(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	for _, id := range []lilv.Identifier{-1, lilv.Identifier(lilv.NumIdentifiers), 255} {
		_, err := w.Node(id)
		require.ErrorIs(t, err, lilv.ErrIndexOutOfRange, "id %d", int(id))
	}
	assert.Equal(t, 0, lib.URICalls())

	require.NoError(t, w.Close())
	_, err := w.Node(lilv.Identifier(-3))
	require.ErrorIs(t, err, lilv.ErrIndexOutOfRange)
}

func TestCloseReleasesEveryPopulatedSlot(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	populated := []lilv.Identifier{lilv.AudioPort, lilv.CVPort, lilv.URIDMap, lilv.Maximum}
	for _, id := range populated {
		_, err := w.Node(id)
		require.NoError(t, err)
	}
	_, _ = w.Node(lilv.AudioPort)
	require.Equal(t, len(populated), w.Cached())

	require.NoError(t, w.Close())
	assert.Equal(t, len(populated), lib.NodesFreed())
	assert.Equal(t, 0, lib.LiveNodes())
	assert.Equal(t, 0, lib.LiveWorlds())
	assert.Empty(t, lib.Violations())
}

func TestFailedCreateAllocatesNothing(t *testing.T) {
	lib := fakelilv.New()
	lib.FailWorlds(1)

	w, err := lilv.NewWorld(lilv.WithNative(lib))
	require.ErrorIs(t, err, lilv.ErrInitialization)
	assert.Nil(t, w)
	assert.Equal(t, 0, lib.WorldsCreated())
	assert.Equal(t, 0, lib.WorldsFreed())

	w, err = lilv.NewWorld(lilv.WithNative(lib))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestDefaultNativeWithoutBindings(t *testing.T) {
	if lilv.NativeBuilt() {
		t.Skip("native bindings are linked")
	}
	w, err := lilv.NewWorld()
	require.ErrorIs(t, err, lilv.ErrInitialization)
	require.ErrorIs(t, err, lilv.ErrNotBuilt)
	assert.Nil(t, w)
}

func TestCloseIsIdempotentAndInvalidates(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	n, err := w.Node(lilv.OutputPort)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, lib.WorldsFreed())

	assert.False(t, w.Alive())
	assert.False(t, n.Valid())
	_, err = n.Ptr()
	require.ErrorIs(t, err, lilv.ErrInvalidHandle)
	_, err = w.Node(lilv.OutputPort)
	require.ErrorIs(t, err, lilv.ErrInvalidHandle)
	require.ErrorIs(t, w.SetOption(lilv.OptionFilterLang, n), lilv.ErrInvalidHandle)
	_, err = w.PluginCount()
	require.ErrorIs(t, err, lilv.ErrInvalidHandle)
	assert.Equal(t, 0, w.Cached())
}

func TestTeardownContinuesPastFreeErrors(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	for _, id := range []lilv.Identifier{lilv.AudioPort, lilv.ControlPort, lilv.Default} {
		_, err := w.Node(id)
		require.NoError(t, err)
	}

	nodeErr := errors.New("node free failed")
	worldErr := errors.New("world free failed")
	lib.SetFreeNodeError(nodeErr)
	lib.SetFreeWorldError(worldErr)

	err := w.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeErr)
	assert.ErrorIs(t, err, worldErr)
	assert.Len(t, multierr.Errors(err), 4)

	assert.Equal(t, 3, lib.NodesFreed())
	assert.Equal(t, 1, lib.WorldsFreed())
	assert.False(t, w.Alive())
	assert.Empty(t, lib.Violations())
}

func TestCleanupReleasesUnreachableWorld(t *testing.T) {
	lib := fakelilv.New()

	func() {
		w, err := lilv.NewWorld(lilv.WithNative(lib))
		require.NoError(t, err)
		_, err = w.Node(lilv.AtomPort)
		require.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return lib.WorldsFreed() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, lib.NodesFreed())
	assert.Empty(t, lib.Violations())
}

func TestHeldNodeKeepsWorldAlive(t *testing.T) {
	lib := fakelilv.New()

	var n *lilv.Node
	func() {
		w, err := lilv.NewWorld(lilv.WithNative(lib))
		require.NoError(t, err)
		n, err = w.Node(lilv.AudioPort)
		require.NoError(t, err)
	}()

	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
		require.True(t, n.Valid())
		ptr, err := n.Ptr()
		require.NoError(t, err)
		require.NotNil(t, ptr)
	}
	assert.Zero(t, lib.WorldsFreed())
	assert.Zero(t, lib.NodesFreed())

	n = nil
	require.Eventually(t, func() bool {
		runtime.GC()
		return lib.WorldsFreed() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, lib.NodesFreed())
	assert.Empty(t, lib.Violations())
}

func TestCleanupIgnoresExplicitlyClosedWorld(t *testing.T) {
	lib := fakelilv.New()

	func() {
		w, err := lilv.NewWorld(lilv.WithNative(lib))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}()

	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, lib.WorldsFreed())
	assert.Empty(t, lib.Violations())
}

func TestNodeWithRetry(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)
	ctx := context.Background()

	lib.FailURI(lilv.AtomSequence.URI(), 2)
	n, err := w.NodeWithRetry(ctx, lilv.AtomSequence, backoff.NewConstantBackOff(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, lilv.AtomSequence, n.Identifier())
	assert.Equal(t, 3, lib.URICalls())

	_, err = w.NodeWithRetry(ctx, lilv.Identifier(99), backoff.NewConstantBackOff(time.Millisecond))
	require.ErrorIs(t, err, lilv.ErrIndexOutOfRange)
	assert.Equal(t, 3, lib.URICalls())

	lib.FailURI(lilv.Minimum.URI(), 10)
	_, err = w.NodeWithRetry(ctx, lilv.Minimum, backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2))
	require.ErrorIs(t, err, lilv.ErrNodeResolution)
}

func TestNewWorldWithConfigLoadsAndPreloads(t *testing.T) {
	lib := fakelilv.New()
	lib.SetPluginCount(3)
	dir := t.TempDir()

	cfg := lilv.Config{
		LoadAll: true,
		Bundles: []string{dir},
		Preload: []string{"lv2:AudioPort", lilv.MidiEvent.URI()},
	}
	w, err := lilv.NewWorldWithConfig(context.Background(), cfg, lilv.WithNative(lib))
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, 1, lib.LoadAllCalls())
	bundles := lib.Bundles()
	require.Len(t, bundles, 1)
	assert.True(t, strings.HasPrefix(bundles[0], "file://"), bundles[0])
	assert.True(t, strings.HasSuffix(bundles[0], "/"), bundles[0])

	assert.Equal(t, 2, w.Cached())
	assert.Equal(t, 2, lib.LiveNodes(), "bundle URI node must be freed after loading")

	count, err := w.PluginCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestLoadBundleURIs(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)
	spaced := filepath.Join(t.TempDir(), "a b")

	require.NoError(t, w.LoadBundle("/"))
	require.NoError(t, w.LoadBundle(spaced+"/"))

	bundles := lib.Bundles()
	require.Len(t, bundles, 2)
	assert.Equal(t, "file:///", bundles[0])
	assert.True(t, strings.HasSuffix(bundles[1], "/a%20b/"), bundles[1])
	assert.NotContains(t, bundles[1], "//a%20b")
	assert.Zero(t, lib.LiveNodes())
}

func TestPreloadFailureReleasesWorld(t *testing.T) {
	lib := fakelilv.New()
	lib.FailURI(lilv.AudioPort.URI(), 1)

	cfg := lilv.Config{Preload: []string{"lv2:ControlPort", "lv2:AudioPort"}}
	w, err := lilv.NewWorldWithConfig(context.Background(), cfg, lilv.WithNative(lib))
	require.ErrorIs(t, err, lilv.ErrNodeResolution)
	assert.Nil(t, w)

	assert.Equal(t, 0, lib.LiveWorlds())
	assert.Equal(t, 0, lib.LiveNodes())
	assert.Empty(t, lib.Violations())
}

func TestInvalidConfigCreatesNothing(t *testing.T) {
	lib := fakelilv.New()

	_, err := lilv.NewWorldWithConfig(context.Background(), lilv.Config{Preload: []string{"lv2:Bogus"}}, lilv.WithNative(lib))
	require.Error(t, err)
	assert.Equal(t, 0, lib.WorldsCreated())
}

type countingObserver struct {
	mu                              sync.Mutex
	created, destroyed, released    int
	materialized, hits, resolveFail int
}

func (o *countingObserver) WorldCreated() { o.mu.Lock(); o.created++; o.mu.Unlock() }
func (o *countingObserver) WorldDestroyed(n int) {
	o.mu.Lock()
	o.destroyed++
	o.released += n
	o.mu.Unlock()
}
func (o *countingObserver) NodeMaterialized(lilv.Identifier) { o.mu.Lock(); o.materialized++; o.mu.Unlock() }
func (o *countingObserver) NodeCacheHit(lilv.Identifier)     { o.mu.Lock(); o.hits++; o.mu.Unlock() }
func (o *countingObserver) NodeResolutionFailed(lilv.Identifier) {
	o.mu.Lock()
	o.resolveFail++
	o.mu.Unlock()
}

func TestObserverSeesLifecycle(t *testing.T) {
	lib := fakelilv.New()
	obs := &countingObserver{}
	w := newFakeWorld(t, lib, lilv.WithObserver(obs))

	lib.FailURI(lilv.CVPort.URI(), 1)
	_, _ = w.Node(lilv.CVPort)
	_, _ = w.Node(lilv.CVPort)
	_, _ = w.Node(lilv.CVPort)
	_, _ = w.Node(lilv.InputPort)
	require.NoError(t, w.Close())

	assert.Equal(t, 1, obs.created)
	assert.Equal(t, 1, obs.destroyed)
	assert.Equal(t, 2, obs.released)
	assert.Equal(t, 2, obs.materialized)
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.resolveFail)
}

func TestLookupNeverMaterializes(t *testing.T) {
	lib := fakelilv.New()
	w := newFakeWorld(t, lib)

	_, ok := w.Lookup(lilv.AudioPort)
	assert.False(t, ok)
	assert.Equal(t, 0, lib.URICalls())

	n, err := w.Node(lilv.AudioPort)
	require.NoError(t, err)
	got, ok := w.Lookup(lilv.AudioPort)
	require.True(t, ok)
	assert.Same(t, n, got)

	_, ok = w.Lookup(lilv.Identifier(-1))
	assert.False(t, ok)

	require.NoError(t, w.Close())
	_, ok = w.Lookup(lilv.AudioPort)
	assert.False(t, ok)
}
