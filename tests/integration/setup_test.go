package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finken/internal/handlers"
	"finken/internal/logger"
	"finken/internal/middleware"
	"finken/internal/models"
	"finken/internal/services"
	"finken/internal/testutil"
	"finken/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Mailer    *testutil.FakeMailer
	Questions []models.SecurityQuestion
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Role{},
		&models.User{},
		&models.RegistrationRequest{},
		&models.SignupInvitation{},
		&models.PasswordHistory{},
		&models.SecurityQuestion{},
		&models.SecurityAnswer{},
		&models.ChartAccount{},
		&models.LedgerEntry{},
		&models.EventLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	testutil.SeedRoles(t, db)
	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	mailer := &testutil.FakeMailer{}
	questions := testutil.SeedSecurityQuestions(t, db)

	// Services
	auditService := services.NewAuditService(db)
	registrationService := services.NewRegistrationService(db, mailer, "http://localhost:8080")
	authService := services.NewAuthService(db)
	resetService := services.NewResetService(db)
	userService := services.NewUserAdminService(db, auditService)
	chartService := services.NewChartService(db, auditService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService, auditService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	resetHandler := handlers.NewResetHandler(resetService)
	adminHandler := handlers.NewAdminHandler(registrationService, userService, 48*time.Hour)
	accountHandler := handlers.NewAccountHandler(chartService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", registrationHandler.Register)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/forgot-password/find", resetHandler.FindUser)
	auth.POST("/forgot-password/verify", resetHandler.VerifyAnswer)
	auth.POST("/forgot-password/reset", resetHandler.ResetPassword)

	v1.GET("/signup", registrationHandler.GetSignupContext)
	v1.POST("/signup", registrationHandler.FinalizeSignup)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeactivateAccount)
	protected.GET("/ledger/:number", accountHandler.GetLedger)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/requests", adminHandler.ListRequests)
	admin.GET("/requests/:id", adminHandler.GetRequest)
	admin.POST("/requests/:id/approve", adminHandler.ApproveRequest)
	admin.POST("/requests/:id/reject", adminHandler.RejectRequest)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/expiring-passwords", adminHandler.GetExpiringPasswords)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.POST("/users/:id/suspend", adminHandler.SuspendUser)
	admin.POST("/users/:id/unsuspend", adminHandler.UnsuspendUser)

	return &testApp{DB: db, Router: router, Mailer: mailer, Questions: questions}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// signIn authenticates and returns the access token.
func (app *testApp) signIn(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/v1/auth/signin", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string)
}

// adminToken creates an administrator directly in the database and signs in.
func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()
	admin := testutil.CreateTestAdmin(t, app.DB)
	return app.signIn(t, admin.Username, testutil.TestPassword)
}
