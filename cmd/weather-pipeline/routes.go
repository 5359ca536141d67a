package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Sternrassler/weather-pipeline/pkg/metrics"
	"github.com/Sternrassler/weather-pipeline/pkg/prefs"
)

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /refresh/{subject}", a.refreshHandler)
	mux.HandleFunc("GET /pending", a.pendingHandler)
	mux.HandleFunc("POST /maintenance", a.maintenanceHandler)
	mux.HandleFunc("PUT /prefs/{subject}", a.prefsHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func (a *app) refreshHandler(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")
	if subject == "" {
		http.Error(w, "subject is required", http.StatusBadRequest)
		return
	}

	generation := a.controller.RequestAll(subject)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"subject_id": subject,
		"generation": generation,
		"pending":    a.controller.PendingTasks(),
	})
}

func (a *app) pendingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": a.controller.PendingTasks(),
		"state":   a.controller.State().String(),
	})
}

func (a *app) maintenanceHandler(w http.ResponseWriter, r *http.Request) {
	a.controller.RunMaintenance()
	w.WriteHeader(http.StatusAccepted)
}

func (a *app) prefsHandler(w http.ResponseWriter, r *http.Request) {
	if a.prefs == nil {
		http.Error(w, "preference store not configured", http.StatusServiceUnavailable)
		return
	}

	units := prefs.DefaultUnits()
	if v := r.URL.Query().Get("temperature"); v != "" {
		unit, err := prefs.ParseTemperatureUnit(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		units.Temperature = unit
	}
	if v := r.URL.Query().Get("wind"); v != "" {
		unit, err := prefs.ParseWindUnit(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		units.Wind = unit
	}

	subject := r.PathValue("subject")
	if err := a.prefs.Set(r.Context(), subject, units); err != nil {
		a.logger.Error().Err(err).Str("subject_id", subject).Msg("Failed to store preferences")
		http.Error(w, "failed to store preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
