// Package metrics records build pipeline metrics.
//
// Components receive a Recorder through options and default to NoopRecorder,
// so callers never need nil checks:
//
//	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
//	entries, err := loader.LoadAll(fsys, content.CollectionBlog, loader.WithRecorder(rec))
//
// A build is a one-shot process, so the Prometheus recorder is not scraped.
// Instead WriteTextfile dumps the registry in the text exposition format for
// the node_exporter textfile collector.
package metrics
