package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"equipment-inventory-api/internal/audit"
	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/config"
	"equipment-inventory-api/internal/database"
	"equipment-inventory-api/internal/handler"
	"equipment-inventory-api/internal/middleware"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/internal/router"
	"equipment-inventory-api/internal/service"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

var (
	once      sync.Once
	sharedCfg *config.Config
	initErr   error
)

// startPostgres starts one PostgreSQL container for the whole run and
// applies the embedded migrations. The container lives until the process
// exits.
func startPostgres() (*config.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "inventory",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:            host,
			Port:            port.Int(),
			User:            "testuser",
			Password:        "testpass",
			Name:            "inventory",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Minute,
			ConnMaxIdleTime: time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecret: "integration-secret-0123456789",
			TokenTTL:  time.Hour,
		},
		Security: config.SecurityConfig{
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
			RequestTimeout: 10 * time.Second,
		},
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := database.Migrate(ctx, db); err != nil {
		return nil, err
	}
	return cfg, nil
}

// suite is the full HTTP stack over a real database.
type suite struct {
	DB       *sql.DB
	Router   http.Handler
	Logs     repository.ActionLogRepository
	Recorder *audit.AsyncRecorder
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		sharedCfg, initErr = startPostgres()
	})
	require.NoError(t, initErr, "failed to start test database")

	db, err := database.InitDB(sharedCfg)
	require.NoError(t, err)

	_, err = db.Exec(`TRUNCATE logs, equipment, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	_, err = db.Exec(`ALTER SEQUENCE equipment_id_seq RESTART WITH 180000`)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	equipmentRepo := repository.NewEquipmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewActionLogRepository(db)

	recorder := audit.NewRecorder(logRepo, audit.DefaultConfig(), logger)
	tokens := auth.NewTokenManager(sharedCfg.Auth.JWTSecret, sharedCfg.Auth.TokenTTL)

	authSvc := service.NewAuthService(userRepo, tokens, logger)
	equipmentSvc := service.NewEquipmentService(equipmentRepo, logRepo, recorder, logger)
	userSvc := service.NewUserService(userRepo, logger)

	r := router.NewRouter(router.Handlers{
		Equipment: handler.NewEquipmentHandler(equipmentSvc, logger),
		Auth:      handler.NewAuthHandler(authSvc, false, logger),
		Users:     handler.NewUserHandler(userSvc, logger),
		System:    handler.NewSystemHandler(db, logger),
		Errors:    handler.NewErrorHandler(logger),
	}, middleware.NewAuthMiddleware(authSvc, logger), sharedCfg, logger)

	s := &suite{DB: db, Router: r, Logs: logRepo, Recorder: recorder}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		recorder.Close(ctx)
		db.Close()
	})
	return s
}

type envelope struct {
	Status  int               `json:"status"`
	Length  *int              `json:"length"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func (s *suite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
		require.Equal(t, rr.Code, env.Status)
	}
	return rr, env
}

// login registers a user and returns a session token for it.
func (s *suite) login(t *testing.T, name, email string) string {
	t.Helper()

	rr, _ := s.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "s3cret!",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := s.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "s3cret!",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var result service.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result.Token
}
