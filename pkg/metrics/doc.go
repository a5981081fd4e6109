// Package metrics exposes Prometheus counters and histograms for the
// validation API on a private registry.
//
//	m := metrics.New("formrules")
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
//	m.ObserveValidation(metrics.KindRule, metrics.OutcomeFail, "cpf")
//
// Rule names are normalised through the validator catalogue before they
// become label values.
package metrics
