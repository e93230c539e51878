package lilv

// Observer receives lifecycle events from every World it is attached to.
// Calls happen synchronously on the goroutine driving the World, so
// implementations must be cheap and safe for concurrent use when shared
// between worlds.
type Observer interface {
	WorldCreated()
	// WorldDestroyed reports how many cached nodes were released with the world.
	WorldDestroyed(nodes int)
	NodeMaterialized(id Identifier)
	NodeCacheHit(id Identifier)
	NodeResolutionFailed(id Identifier)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) WorldCreated()                   {}
func (NopObserver) WorldDestroyed(int)              {}
func (NopObserver) NodeMaterialized(Identifier)     {}
func (NopObserver) NodeCacheHit(Identifier)         {}
func (NopObserver) NodeResolutionFailed(Identifier) {}
