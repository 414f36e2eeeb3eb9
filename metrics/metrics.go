// Package metrics exposes prometheus counters for the invoice store.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu          sync.Mutex
	initialized bool

	storeOperations *prometheus.CounterVec
	storeBootstraps prometheus.Counter
	setupErr        error
)

// Setup registers the collectors once. Later calls return the result of the first one.
func Setup(reg prometheus.Registerer) error {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return setupErr
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicegen_store_operations_total",
		Help: "Invoice store operations by operation and result.",
	}, []string{"operation", "result"})
	storeBootstraps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoicegen_store_bootstraps_total",
		Help: "Times the invoice collection was missing or unreadable and got reseeded with sample data.",
	})

	for _, collector := range []prometheus.Collector{storeOperations, storeBootstraps} {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				setupErr = err
				break
			}
			switch c := already.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				storeOperations = c
			case prometheus.Counter:
				storeBootstraps = c
			}
		}
	}

	initialized = true
	return setupErr
}

// ObserveStore counts one store operation. It is a no-op until Setup has run.
func ObserveStore(operation string, err error) {
	mu.Lock()
	counter := storeOperations
	mu.Unlock()
	if counter == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	counter.WithLabelValues(operation, result).Inc()
}

func ObserveBootstrap() {
	mu.Lock()
	counter := storeBootstraps
	mu.Unlock()
	if counter == nil {
		return
	}
	counter.Inc()
}
