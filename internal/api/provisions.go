package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arencloud/provisio/internal/config"
	"github.com/arencloud/provisio/internal/db"
	"github.com/arencloud/provisio/internal/logging"
	"github.com/arencloud/provisio/internal/models"
	"github.com/arencloud/provisio/internal/s3"

	"github.com/go-chi/chi/v5"
)

// ensureFn runs one ensure pass against a target. Tests swap it out to avoid
// a live backend.
var ensureFn = func(ctx context.Context, t models.Target, logger logging.Logger, req s3.Request) (s3.Result, error) {
	return s3.NewFromTarget(t, logger).Ensure(ctx, req)
}

func registerProvisions(r chi.Router, cfg *config.Config, logger logging.Logger) {
	r.Post("/provisions", createProvision(cfg, logger))
	r.Get("/provisions", listProvisions)
}

func createProvision(cfg *config.Config, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var in struct {
			Bucket      string `json:"bucket"`
			EndpointUrl string `json:"endpointUrl"`
			Region      string `json:"region"`
			Target      string `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(in.Bucket) == "" {
			http.Error(w, "bucket is required", http.StatusBadRequest)
			return
		}

		// Named target if given, otherwise the server's own backend settings.
		target := models.Target{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			UseSSL:    cfg.UseSSL,
		}
		if in.Target != "" {
			if err := db.DB.Where("name = ?", in.Target).First(&target).Error; err != nil {
				http.Error(w, "target not found", http.StatusNotFound)
				return
			}
		}

		started := time.Now()
		res, err := ensureFn(r.Context(), target, logger, s3.Request{Bucket: in.Bucket, Endpoint: in.EndpointUrl, Region: in.Region})
		rec := models.ProvisionRecord{
			Bucket:       in.Bucket,
			Endpoint:     res.Endpoint,
			EndpointMode: res.EndpointMode,
			RequestedBy:  tokenName(r),
			DurationNs:   time.Since(started).Nanoseconds(),
		}
		if err != nil {
			rec.Outcome = "error"
			rec.Error = err.Error()
			_ = db.DB.Create(&rec).Error
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		rec.Outcome = string(res.Outcome)
		_ = db.DB.Create(&rec).Error
		json.NewEncoder(w).Encode(map[string]string{
			"bucket":       res.Bucket,
			"outcome":      string(res.Outcome),
			"endpoint":     res.Endpoint,
			"endpointMode": res.EndpointMode,
		})
	}
}

func listProvisions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	q := db.DB.Order("id desc").Limit(limit)
	if b := r.URL.Query().Get("bucket"); b != "" {
		q = q.Where("bucket = ?", b)
	}
	var rows []models.ProvisionRecord
	if err := q.Find(&rows).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rows)
}
