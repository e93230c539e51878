package fakelilv

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gramotor/lilv-go/pkg/lilv"
)

// ErrUnknownHandle is returned by the Free methods for pointers Lib never
// produced or already freed.
var ErrUnknownHandle = errors.New("fakelilv: unknown handle")

// OptionCall records one SetOption invocation.
type OptionCall struct {
	Key string
	URI string
}

type world struct {
	live int
}

type node struct {
	world *world
	uri   string
}

var _ lilv.Native = (*Lib)(nil)

// Lib is a fake lilv library.
type Lib struct {
	mu sync.Mutex

	worlds map[*world]struct{}
	nodes  map[*node]struct{}

	failWorlds   int
	failURIs     map[string]int
	freeNodeErr  error
	freeWorldErr error
	plugins      int

	worldsCreated int
	worldsFreed   int
	nodesCreated  int
	nodesFreed    int
	uriCalls      int
	loadAllCalls  int
	bundles       []string
	options       []OptionCall
	violations    []string
}

// New returns an empty fake library.
func New() *Lib {
	return &Lib{
		worlds:   make(map[*world]struct{}),
		nodes:    make(map[*node]struct{}),
		failURIs: make(map[string]int),
	}
}

// FailWorlds makes the next n NewWorld calls return a nil world.
func (l *Lib) FailWorlds(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failWorlds = n
}

// FailURI makes the next n NewURI calls for uri return nil.
func (l *Lib) FailURI(uri string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failURIs[uri] = n
}

// SetFreeNodeError makes FreeNode report err after releasing the node.
func (l *Lib) SetFreeNodeError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.freeNodeErr = err
}

// SetFreeWorldError makes FreeWorld report err after releasing the world.
func (l *Lib) SetFreeWorldError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.freeWorldErr = err
}

// SetPluginCount sets the value PluginCount returns after LoadAll.
func (l *Lib) SetPluginCount(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plugins = n
}

func (l *Lib) NewWorld() (unsafe.Pointer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWorlds > 0 {
		l.failWorlds--
		return nil, nil
	}
	w := &world{}
	l.worlds[w] = struct{}{}
	l.worldsCreated++
	return unsafe.Pointer(w), nil
}

func (l *Lib) FreeWorld(ptr unsafe.Pointer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := (*world)(ptr)
	if _, ok := l.worlds[w]; !ok {
		l.violate("free of unknown world %p", ptr)
		return ErrUnknownHandle
	}
	if w.live > 0 {
		l.violate("world %p freed with %d live nodes", ptr, w.live)
	}
	delete(l.worlds, w)
	l.worldsFreed++
	return l.freeWorldErr
}

func (l *Lib) NewURI(ptr unsafe.Pointer, uri string) unsafe.Pointer {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.uriCalls++
	w := (*world)(ptr)
	if _, ok := l.worlds[w]; !ok {
		l.violate("new_uri %q on unknown world %p", uri, ptr)
		return nil
	}
	if n := l.failURIs[uri]; n > 0 {
		l.failURIs[uri] = n - 1
		return nil
	}
	nd := &node{world: w, uri: uri}
	l.nodes[nd] = struct{}{}
	w.live++
	l.nodesCreated++
	return unsafe.Pointer(nd)
}

func (l *Lib) FreeNode(ptr unsafe.Pointer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	nd := (*node)(ptr)
	if _, ok := l.nodes[nd]; !ok {
		l.violate("free of unknown node %p", ptr)
		return ErrUnknownHandle
	}
	if _, ok := l.worlds[nd.world]; !ok {
		l.violate("node %q freed after its world", nd.uri)
	}
	delete(l.nodes, nd)
	nd.world.live--
	l.nodesFreed++
	return l.freeNodeErr
}

func (l *Lib) SetOption(ptr unsafe.Pointer, key string, value unsafe.Pointer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := (*world)(ptr)
	if _, ok := l.worlds[w]; !ok {
		l.violate("set_option %q on unknown world %p", key, ptr)
		return
	}
	nd := (*node)(value)
	if _, ok := l.nodes[nd]; !ok || nd.world != w {
		l.violate("set_option %q with foreign node %p", key, value)
		return
	}
	l.options = append(l.options, OptionCall{Key: key, URI: nd.uri})
}

func (l *Lib) LoadAll(ptr unsafe.Pointer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.worlds[(*world)(ptr)]; !ok {
		l.violate("load_all on unknown world %p", ptr)
		return
	}
	l.loadAllCalls++
}

func (l *Lib) LoadBundle(ptr, bundle unsafe.Pointer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.worlds[(*world)(ptr)]; !ok {
		l.violate("load_bundle on unknown world %p", ptr)
		return
	}
	nd := (*node)(bundle)
	if _, ok := l.nodes[nd]; !ok {
		l.violate("load_bundle with unknown node %p", bundle)
		return
	}
	l.bundles = append(l.bundles, nd.uri)
}

func (l *Lib) PluginCount(ptr unsafe.Pointer) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.worlds[(*world)(ptr)]; !ok {
		l.violate("plugin_count on unknown world %p", ptr)
		return 0
	}
	if l.loadAllCalls == 0 && len(l.bundles) == 0 {
		return 0
	}
	return l.plugins
}

func (l *Lib) violate(format string, args ...any) {
	l.violations = append(l.violations, fmt.Sprintf(format, args...))
}

// WorldsCreated returns how many worlds NewWorld produced.
func (l *Lib) WorldsCreated() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.worldsCreated
}

// WorldsFreed returns how many FreeWorld calls released a known world.
func (l *Lib) WorldsFreed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.worldsFreed
}

// NodesCreated returns how many nodes NewURI produced.
func (l *Lib) NodesCreated() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nodesCreated
}

// NodesFreed returns how many FreeNode calls released a known node.
func (l *Lib) NodesFreed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nodesFreed
}

// URICalls returns how many times NewURI was invoked, successful or not.
func (l *Lib) URICalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.uriCalls
}

// LiveWorlds returns the number of worlds not yet freed.
func (l *Lib) LiveWorlds() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.worlds)
}

// LiveNodes returns the number of nodes not yet freed.
func (l *Lib) LiveNodes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}

// LoadAllCalls returns how many times LoadAll was invoked.
func (l *Lib) LoadAllCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadAllCalls
}

// Bundles returns the bundle URIs passed to LoadBundle, in order.
func (l *Lib) Bundles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.bundles...)
}

// Options returns the recorded SetOption calls, in order.
func (l *Lib) Options() []OptionCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]OptionCall(nil), l.options...)
}

// Violations returns every contract violation observed so far.
func (l *Lib) Violations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.violations...)
}
