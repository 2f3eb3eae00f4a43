package auth

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/splitpay/api-financeiro/internal/utils"
)

// LoginHandler autentica o operador do painel financeiro.
// As credenciais vêm do ambiente: OPERADOR_USUARIO e OPERADOR_SENHA_HASH (bcrypt).
func LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Usuario string `json:"usuario"`
			Senha   string `json:"senha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Requisição inválida", http.StatusBadRequest)
			return
		}

		usuario := os.Getenv("OPERADOR_USUARIO")
		hash := os.Getenv("OPERADOR_SENHA_HASH")
		if usuario == "" || hash == "" || req.Usuario != usuario {
			http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
			return
		}
		if !utils.CheckSenha(hash, req.Senha) {
			http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
			return
		}

		token, err := GerarToken(req.Usuario)
		if err != nil {
			http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}
}
