package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs one line per
// RPC with the procedure, the result code (the same label the metrics use),
// the request ID and the duration.
//
// Successful calls log at info. Rejected input and missing or duplicate
// records log at warn. Everything else logs at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"code", codeLabel(err),
				"request_id", GetRequestID(ctx), // empty unless RequestIDInterceptor ran first
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				attrs = append(attrs, "error", errorMessage(err))
			}
			slog.Log(ctx, rpcLevel(err), "RPC finished", attrs...)

			return resp, err
		}
	}
}

func rpcLevel(err error) slog.Level {
	if err == nil {
		return slog.LevelInfo
	}
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists, connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// errorMessage drops the "code: " prefix connect adds to its errors.
func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}
