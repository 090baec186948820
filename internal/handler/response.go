package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// ResponseHelper provides common request and response utilities
type ResponseHelper struct {
	now func() time.Time
}

// NewResponseHelper creates a new ResponseHelper instance
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{now: time.Now}
}

// DecodeJSON reads a single JSON object from the request body into v.
func (rh *ResponseHelper) DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

// CreateHealthCheckData creates health check response data
func (rh *ResponseHelper) CreateHealthCheckData(database string) map[string]interface{} {
	status := "healthy"
	if database != "up" {
		status = "degraded"
	}
	return map[string]interface{}{
		"timestamp": rh.now().UTC(),
		"service":   "equipment-inventory-api",
		"status":    status,
		"database":  database,
	}
}

// CreateWelcomeData lists the entry points of the API
func (rh *ResponseHelper) CreateWelcomeData() map[string]interface{} {
	return map[string]interface{}{
		"auth": map[string]string{
			"login":    "/api/auth/login",
			"register": "/api/auth/register",
			"profile":  "/api/auth/profile",
		},
		"equipment": "/api/equipment",
		"users":     "/api/users",
		"health":    "/api/health",
	}
}
