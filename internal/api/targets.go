package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/arencloud/provisio/internal/db"
	"github.com/arencloud/provisio/internal/models"

	"github.com/go-chi/chi/v5"
)

func registerTargets(r chi.Router) {
	r.Get("/targets", listTargets)
	r.Post("/targets", createTarget)
	r.Delete("/targets/{name}", deleteTarget)
}

func listTargets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	var rows []models.Target
	if err := db.DB.Order("name asc").Find(&rows).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rows)
}

func createTarget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Target.SecretKey is json:"-", so creation takes an explicit input shape.
	var in struct {
		Name      string `json:"name"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"accessKey"`
		SecretKey string `json:"secretKey"`
		Region    string `json:"region"`
		UseSSL    bool   `json:"useSSL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	t := models.Target{Name: in.Name, Endpoint: in.Endpoint, AccessKey: in.AccessKey, SecretKey: in.SecretKey, Region: in.Region, UseSSL: in.UseSSL}
	if err := db.DB.Create(&t).Error; err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

func deleteTarget(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	res := db.DB.Where("name = ?", name).Delete(&models.Target{})
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
