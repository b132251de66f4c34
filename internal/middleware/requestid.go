// Package middleware はHTTPミドルウェア群を提供する。
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// requestIDKey はリクエストIDをコンテキストに格納するキー。
const requestIDKey contextKey = "request_id"

// requestIDHeader はリクエストIDの受け渡しに使うHTTPヘッダー。
const requestIDHeader = "X-Request-ID"

// NewRequestIDMiddleware は各リクエストにリクエストIDを付与するミドルウェアを返す。
// X-Request-IDヘッダーが付いている場合はその値を引き継ぎ、
// 無ければUUIDを新規発行する。IDはレスポンスヘッダーにも設定する。
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)

			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext はコンテキストからリクエストIDを取り出す。
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
