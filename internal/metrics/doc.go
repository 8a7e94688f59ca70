// Package metrics records overlay and packaging metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// require nil checks at call sites:
//
//	builder := overlay.NewBuilder(registry, overlay.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics are enabled the CLI swaps in a PrometheusRecorder and serves it
// through HTTPHandler while watching.
package metrics
