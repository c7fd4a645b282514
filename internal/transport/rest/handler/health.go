package handler

import "net/http"

// HealthStatus reports which backends the server is running on
type HealthStatus struct {
	Status  string `json:"status"`
	Storage string `json:"storage"` // mongo | memory
	Cache   string `json:"cache"`   // redis | disabled
}

// Health handles GET /health
func Health(status HealthStatus) http.HandlerFunc {
	status.Status = "ok"
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, status)
	}
}

// Root handles GET /
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("API running"))
}
