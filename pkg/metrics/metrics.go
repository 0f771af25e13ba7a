// Package metrics exposes Prometheus counters for designer operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WorkflowSaves counts persisted workflow records.
	WorkflowSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasflow_workflow_saves_total",
		Help: "Number of workflow records saved.",
	})

	// WorkflowLoads counts workflow records loaded into an editing session.
	WorkflowLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasflow_workflow_loads_total",
		Help: "Number of workflow records loaded.",
	})

	// WorkflowDeletes counts removed workflow records.
	WorkflowDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasflow_workflow_deletes_total",
		Help: "Number of workflow records deleted.",
	})

	// TemplateRenders counts template preview interpolations.
	TemplateRenders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasflow_template_renders_total",
		Help: "Number of template previews rendered.",
	})

	// DanglingEdgesDropped counts connections discarded on load because an
	// endpoint node no longer exists.
	DanglingEdgesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvasflow_dangling_edges_dropped_total",
		Help: "Number of dangling connections dropped while loading workflows.",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
