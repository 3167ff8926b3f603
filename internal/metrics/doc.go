// Package metrics provides observability hooks for toctree fragment rendering,
// source link resolution and document loading.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	renderer := toctree.NewFragmentRenderer(env, toctree.WithRecorder(metrics.NoopRecorder{}))
//
// The watch command swaps in a PrometheusRecorder and serves HTTPHandler.
package metrics
