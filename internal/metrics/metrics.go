// Package metrics exposes Prometheus counters for the harvest run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks the number of HTTP requests dispatched.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_requests_total",
		Help: "The total number of HTTP requests sent.",
	})
	// RequestErrorsTotal tracks requests that resulted in a classified failure.
	RequestErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_request_errors_total",
		Help: "The total number of failed HTTP requests.",
	})
	// RetriesTotal tracks retry attempts scheduled by the task runner.
	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_retries_total",
		Help: "The total number of task retry attempts.",
	})
	// TasksSucceededTotal tracks tasks that reached a terminal success, by stage.
	TasksSucceededTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_tasks_succeeded_total",
		Help: "The total number of tasks that resolved successfully.",
	}, []string{"stage"})
	// TasksFailedTotal tracks tasks that exhausted their retries, by stage.
	TasksFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_tasks_failed_total",
		Help: "The total number of tasks that failed permanently.",
	}, []string{"stage"})
	// RecordsTotal tracks extracted records, by stage.
	RecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvester_records_total",
		Help: "The total number of records extracted.",
	}, []string{"stage"})
)
