// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/metric"
)

type contextKey int

const requestTimestampKey contextKey = iota

// interceptor records how often each API method is called, how long it took
// and how often it failed.
type interceptor struct {
	requestCount    metric.CounterVec
	requestDuration metric.CounterVec
	requestErrors   metric.CounterVec
}

func newInterceptor(registerer metric.Registerer) (*interceptor, error) {
	i := &interceptor{
		requestCount: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: "api",
				Name:      "request_count",
				Help:      "Number of times this type of request was made",
			},
			[]string{"method"},
		),
		requestDuration: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: "api",
				Name:      "request_duration_sum",
				Help:      "Amount of time in nanoseconds that has been spent handling this type of request",
			},
			[]string{"method"},
		),
		requestErrors: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: "api",
				Name:      "request_error_count",
				Help:      "Number of request errors",
			},
			[]string{"method"},
		),
	}
	err := errors.Join(
		registerer.Register(metric.AsCollector(i.requestCount)),
		registerer.Register(metric.AsCollector(i.requestDuration)),
		registerer.Register(metric.AsCollector(i.requestErrors)),
	)
	return i, err
}

func (*interceptor) InterceptRequest(info *rpc.RequestInfo) *http.Request {
	ctx := context.WithValue(info.Request.Context(), requestTimestampKey, time.Now())
	return info.Request.WithContext(ctx)
}

func (i *interceptor) AfterRequest(info *rpc.RequestInfo) {
	start, ok := info.Request.Context().Value(requestTimestampKey).(time.Time)
	if !ok {
		return
	}

	labels := metric.Labels{"method": info.Method}
	i.requestCount.With(labels).Inc()
	i.requestDuration.With(labels).Add(float64(time.Since(start)))
	if info.Error != nil {
		i.requestErrors.With(labels).Inc()
	}
}
