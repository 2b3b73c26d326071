// internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				// panic の真因をログに残す
				log.Printf("[recover] PANIC %s %s: %v\n%s", r.Method, r.URL.Path, rec, string(debug.Stack()))

				// ここで必ずレスポンスを返す
				// ※ CORS は外側で付ける（チェーン順が重要）
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal_server_error"}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
