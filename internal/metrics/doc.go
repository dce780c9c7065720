// Package metrics provides observability hooks for site assembly.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites:
//
//	asm := build.NewAssembler(cfg, registry, build.Options{}).WithRecorder(metrics.NoopRecorder{})
//
// PrometheusRecorder registers its collectors under the "sitecfg" namespace;
// HTTPHandler exposes a registry for scraping, which watch mode serves when
// a metrics address is configured.
package metrics
