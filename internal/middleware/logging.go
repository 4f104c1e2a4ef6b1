package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs every unary call with its procedure, caller and
// latency. Client-side failures (connect errors) log at WARN, anything else
// at ERROR.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx),
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}

			var connectErr *connect.Error
			switch {
			case err == nil:
				logger.InfoContext(ctx, "rpc ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				attrs = append(attrs, "code", connectErr.Code().String(), "error", connectErr.Message())
				logger.WarnContext(ctx, "rpc failed", attrs...)
			default:
				attrs = append(attrs, "error", err)
				logger.ErrorContext(ctx, "rpc failed", attrs...)
			}
			return resp, err
		}
	}
}
