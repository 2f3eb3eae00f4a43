package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const CtxOperador ctxKey = "operador"

func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ParseAndValidate(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxOperador, claims.Operador)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
