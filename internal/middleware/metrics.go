package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPMetricsRecorder はHTTPリクエストのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type HTTPMetricsRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordAuthzDenied(action string)
}

// NewMetricsMiddleware はリクエストごとにステータスコードとレイテンシを記録する
// ミドルウェアを返す。401/403レスポンスは認可拒否としてルートパターンの
// ラベル付きで別途カウントする。
func NewMetricsMiddleware(recorder HTTPMetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPStatus(rec.statusCode)
			recorder.RecordRequestLatency(time.Since(start))

			if rec.statusCode == http.StatusUnauthorized || rec.statusCode == http.StatusForbidden {
				action := r.Method
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					action = r.Method + " " + rctx.RoutePattern()
				}
				recorder.RecordAuthzDenied(action)
			}
		})
	}
}
