// Package metrics records run metrics for docsync.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the
// default, and PrometheusRecorder is swapped in when a metrics textfile is
// configured. The Prometheus implementation registers on a private registry
// which WriteTextfile dumps in the text exposition format understood by the
// node_exporter textfile collector.
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	r := runner.New(cfg, runner.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(reg, "/var/lib/node_exporter/docsync.prom")
package metrics
