package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/arencloud/provisio/internal/db"
	"github.com/arencloud/provisio/internal/models"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type tokenCtxKey struct{}

// tokenName returns the authenticated token's name, or "" when unauthenticated.
func tokenName(r *http.Request) string {
	if v, ok := r.Context().Value(tokenCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// requireToken expects "Authorization: Bearer <name>.<secret>" and checks the
// secret against the stored bcrypt hash for <name>.
func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		name, secret, ok := strings.Cut(raw, ".")
		if !ok || name == "" || secret == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var tok models.APIToken
		if err := db.DB.Where("name = ?", name).First(&tok).Error; err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(tok.Hash), []byte(secret)) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenCtxKey{}, tok.Name)))
	})
}

func registerTokens(r chi.Router) {
	r.Post("/tokens", createToken)
	r.Delete("/tokens/{name}", deleteToken)
}

func createToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	secret := hex.EncodeToString(raw)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tok := models.APIToken{Name: in.Name, Hash: string(hash)}
	if err := db.DB.Create(&tok).Error; err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusCreated)
	// plaintext only in this response, never stored
	json.NewEncoder(w).Encode(map[string]string{"name": tok.Name, "token": tok.Name + "." + secret})
}

func deleteToken(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == tokenName(r) {
		http.Error(w, "cannot delete the token in use", http.StatusConflict)
		return
	}
	res := db.DB.Where("name = ?", name).Delete(&models.APIToken{})
	if res.Error != nil {
		http.Error(w, res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
