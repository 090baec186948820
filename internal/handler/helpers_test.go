package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/pkg/contextkeys"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var (
	alice = model.Identity{ID: 1, Name: "Alice", Email: "alice@example.com", Role: model.RoleUser}

	testTokens = auth.NewTokenManager("0123456789abcdef0123", time.Hour)
)

// envelope mirrors api.Response with raw data for per-test decoding.
type envelope struct {
	Status  int               `json:"status"`
	Length  *int              `json:"length"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	require.Equal(t, rr.Code, env.Status, "envelope status must mirror the HTTP status")
	return env
}

func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withIdentity(r *http.Request, identity model.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextkeys.IdentityKey, identity))
}

// serve routes req through a router with a single pattern so path
// variables are populated.
func serve(pattern, method string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc(pattern, h).Methods(method)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}
