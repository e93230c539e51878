package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gramotor/lilv-go/pkg/lilv"
)

// OTel records lifecycle events as OpenTelemetry instruments.
type OTel struct {
	worlds       metric.Int64UpDownCounter
	created      metric.Int64Counter
	released     metric.Int64Counter
	materialized metric.Int64Counter
	hits         metric.Int64Counter
	failures     metric.Int64Counter
}

var _ lilv.Observer = (*OTel)(nil)

// NewOTel creates the instruments on meter.
func NewOTel(meter metric.Meter) (*OTel, error) {
	var (
		o   OTel
		err error
	)
	if o.worlds, err = meter.Int64UpDownCounter("lilv.worlds.live",
		metric.WithDescription("Number of worlds currently alive")); err != nil {
		return nil, err
	}
	if o.created, err = meter.Int64Counter("lilv.worlds.created",
		metric.WithDescription("Native worlds created")); err != nil {
		return nil, err
	}
	if o.released, err = meter.Int64Counter("lilv.nodes.released",
		metric.WithDescription("Cached nodes freed during world teardown")); err != nil {
		return nil, err
	}
	if o.materialized, err = meter.Int64Counter("lilv.nodes.materialized",
		metric.WithDescription("Nodes materialized")); err != nil {
		return nil, err
	}
	if o.hits, err = meter.Int64Counter("lilv.nodes.cache_hits",
		metric.WithDescription("Node lookups served from the cache")); err != nil {
		return nil, err
	}
	if o.failures, err = meter.Int64Counter("lilv.nodes.resolution_failures",
		metric.WithDescription("Failed node materializations")); err != nil {
		return nil, err
	}
	return &o, nil
}

func identifierAttr(id lilv.Identifier) metric.AddOption {
	return metric.WithAttributes(attribute.String("identifier", id.String()))
}

func (o *OTel) WorldCreated() {
	ctx := context.Background()
	o.created.Add(ctx, 1)
	o.worlds.Add(ctx, 1)
}

func (o *OTel) WorldDestroyed(nodes int) {
	ctx := context.Background()
	o.worlds.Add(ctx, -1)
	o.released.Add(ctx, int64(nodes))
}

func (o *OTel) NodeMaterialized(id lilv.Identifier) {
	o.materialized.Add(context.Background(), 1, identifierAttr(id))
}

func (o *OTel) NodeCacheHit(id lilv.Identifier) {
	o.hits.Add(context.Background(), 1, identifierAttr(id))
}

func (o *OTel) NodeResolutionFailed(id lilv.Identifier) {
	o.failures.Add(context.Background(), 1, identifierAttr(id))
}
