// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"scratchmint/internal/adapters/in/http/handlers/common"
)

// IDTokenVerifier は *fbauth.Client が満たす Firebase ID トークン検証の最小インターフェース。
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

var _ IDTokenVerifier = (*fbauth.Client)(nil)

// AuthMiddleware は
//
//   - Authorization: Bearer <OPERATOR_API_TOKEN>
//   - Authorization: Bearer <Firebase ID_TOKEN>
//
// のどちらかを検証してから次のハンドラへ渡す。payer 鍵で署名するルートに掛ける。
// AllowedUIDs が空なら、検証できた Firebase ユーザーは全員通す。
type AuthMiddleware struct {
	OperatorToken string
	FirebaseAuth  IDTokenVerifier
	AllowedUIDs   map[string]bool
}

// Enabled reports whether at least one credential kind is configured.
func (m *AuthMiddleware) Enabled() bool {
	return m != nil && (m.OperatorToken != "" || m.FirebaseAuth != nil)
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 依存チェック（未設定なら署名ルートは閉じる）
		if !m.Enabled() {
			common.WriteError(w, http.StatusServiceUnavailable, "auth_not_configured")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			common.WriteError(w, http.StatusUnauthorized, "missing_bearer_token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			common.WriteError(w, http.StatusUnauthorized, "empty_bearer_token")
			return
		}

		// 1) 運用者トークン
		if m.OperatorToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(m.OperatorToken)) == 1 {
			log.Printf("[auth] path=%s caller=operator", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		// 2) Firebase ID トークン
		if m.FirebaseAuth == nil {
			common.WriteError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		idToken, err := m.FirebaseAuth.VerifyIDToken(r.Context(), token)
		if err != nil || idToken == nil {
			common.WriteError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		uid := strings.TrimSpace(idToken.UID)
		if uid == "" {
			common.WriteError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if len(m.AllowedUIDs) > 0 && !m.AllowedUIDs[uid] {
			log.Printf("[auth] denied path=%s uid=%s", r.URL.Path, uid)
			common.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}

		log.Printf("[auth] path=%s uid=%s", r.URL.Path, uid)
		next.ServeHTTP(w, r)
	})
}
