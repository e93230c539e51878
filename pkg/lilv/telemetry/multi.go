package telemetry

import "github.com/gramotor/lilv-go/pkg/lilv"

type multi []lilv.Observer

// Multi returns an observer forwarding every event to each of obs in order.
// Nil entries are skipped.
func Multi(obs ...lilv.Observer) lilv.Observer {
	m := make(multi, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) WorldCreated() {
	for _, o := range m {
		o.WorldCreated()
	}
}

func (m multi) WorldDestroyed(nodes int) {
	for _, o := range m {
		o.WorldDestroyed(nodes)
	}
}

func (m multi) NodeMaterialized(id lilv.Identifier) {
	for _, o := range m {
		o.NodeMaterialized(id)
	}
}

func (m multi) NodeCacheHit(id lilv.Identifier) {
	for _, o := range m {
		o.NodeCacheHit(id)
	}
}

func (m multi) NodeResolutionFailed(id lilv.Identifier) {
	for _, o := range m {
		o.NodeResolutionFailed(id)
	}
}
