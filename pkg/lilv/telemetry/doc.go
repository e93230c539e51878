// Package telemetry provides lilv.Observer implementations that export world
// and node-cache activity as metrics.
//
// NewPrometheus registers counters on a prometheus.Registerer; NewOTel
// records the same events through an OpenTelemetry metric.Meter. Multi fans
// one event stream out to several observers.
//
//	prom, err := telemetry.NewPrometheus(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	w, err := lilv.NewWorld(lilv.WithObserver(prom))
package telemetry
