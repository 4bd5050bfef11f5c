package handler

import (
	"net/http"
)

// HealthCheck godoc
// @Summary      Show the status of the service
// @Description  Liveness probe for load balancers and monitoring.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "nutrition-api",
	})
}
