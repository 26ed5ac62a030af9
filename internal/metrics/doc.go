// Package metrics provides build observability hooks for ue4build.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never nil-check. When the CLI is given a metrics file,
// a PrometheusRecorder backed by its own registry is injected instead and the
// registry is written out in the text exposition format once the run finishes,
// which suits the node_exporter textfile collector on build machines:
//
//	reg := prom.NewRegistry()
//	svc := build.NewBuildService().WithRecorder(metrics.NewPrometheusRecorder(reg))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
