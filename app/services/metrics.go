package services

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for blob storage and document index calls.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes int64, err error)
	RecordDelete(duration time.Duration, err error)
	RecordSign(duration time.Duration, urls int, err error)
	RecordSignFallback(kind AssetKind)
	RecordIndexWrite(op string, duration time.Duration, err error)
}

// PrometheusObserver exports storage and index metrics to Prometheus.
type PrometheusObserver struct {
	storageDuration *prometheus.HistogramVec
	storageErrors   *prometheus.CounterVec
	uploadBytes     prometheus.Counter
	signedURLs      prometheus.Counter
	signFallbacks   *prometheus.CounterVec
	indexDuration   *prometheus.HistogramVec
	indexErrors     *prometheus.CounterVec
}

func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "supplierhub"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		storageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Latency for blob storage operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_errors_total",
			Help:      "Count of blob storage failures.",
		}, []string{"operation"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "uploaded_bytes_total",
			Help:      "Cumulative payload size successfully uploaded to blob storage.",
		}),
		signedURLs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "signed_urls_total",
			Help:      "Number of asset URLs signed successfully.",
		}),
		signFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "sign_fallbacks_total",
			Help:      "Batches served with unsigned URLs after a signing failure.",
		}, []string{"kind"}),
		indexDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "operation_duration_seconds",
			Help:      "Latency for document index writes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		indexErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "operation_errors_total",
			Help:      "Count of document index failures.",
		}, []string{"operation"}),
	}

	var err error
	if o.storageDuration, err = registerOrExisting(reg, o.storageDuration); err != nil {
		return nil, err
	}
	if o.storageErrors, err = registerOrExisting(reg, o.storageErrors); err != nil {
		return nil, err
	}
	if o.uploadBytes, err = registerOrExisting(reg, o.uploadBytes); err != nil {
		return nil, err
	}
	if o.signedURLs, err = registerOrExisting(reg, o.signedURLs); err != nil {
		return nil, err
	}
	if o.signFallbacks, err = registerOrExisting(reg, o.signFallbacks); err != nil {
		return nil, err
	}
	if o.indexDuration, err = registerOrExisting(reg, o.indexDuration); err != nil {
		return nil, err
	}
	if o.indexErrors, err = registerOrExisting(reg, o.indexErrors); err != nil {
		return nil, err
	}
	return o, nil
}

// registerOrExisting registers c, or returns the collector already
// registered under the same descriptor.
func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	o.storageDuration.WithLabelValues("upload").Observe(duration.Seconds())
	if err != nil {
		o.storageErrors.WithLabelValues("upload").Inc()
		return
	}
	o.uploadBytes.Add(float64(sizeBytes))
}

func (o *PrometheusObserver) RecordDelete(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.storageDuration.WithLabelValues("delete").Observe(duration.Seconds())
	if err != nil {
		o.storageErrors.WithLabelValues("delete").Inc()
	}
}

func (o *PrometheusObserver) RecordSign(duration time.Duration, urls int, err error) {
	if o == nil {
		return
	}
	o.storageDuration.WithLabelValues("sign").Observe(duration.Seconds())
	if err != nil {
		o.storageErrors.WithLabelValues("sign").Inc()
		return
	}
	o.signedURLs.Add(float64(urls))
}

func (o *PrometheusObserver) RecordSignFallback(kind AssetKind) {
	if o == nil {
		return
	}
	o.signFallbacks.WithLabelValues(kind.String()).Inc()
}

func (o *PrometheusObserver) RecordIndexWrite(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.indexDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		o.indexErrors.WithLabelValues(op).Inc()
	}
}

// NopObserver discards all telemetry.
type NopObserver struct{}

func (NopObserver) RecordUpload(time.Duration, int64, error) {}

func (NopObserver) RecordDelete(time.Duration, error) {}

func (NopObserver) RecordSign(time.Duration, int, error) {}

func (NopObserver) RecordSignFallback(AssetKind) {}

func (NopObserver) RecordIndexWrite(string, time.Duration, error) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
