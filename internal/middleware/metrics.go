package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/splitgroups/internal/metrics"
)

// MetricsInterceptor records the count and latency of every RPC, labelled
// by procedure and result code ("ok" on success).
func MetricsInterceptor(collector *metrics.Collector) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			collector.ObserveRPC(req.Spec().Procedure, codeLabel(err), time.Since(start))
			return resp, err
		}
	}
}

func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return connect.CodeOf(err).String()
}
