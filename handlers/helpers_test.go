package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tiffin-market-api/config"
	"tiffin-market-api/database"
	"tiffin-market-api/handlers"
	"tiffin-market-api/mailer"
	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
	"tiffin-market-api/routes"
)

const testPassword = "password123"

type env struct {
	db  *gorm.DB
	r   *gin.Engine
	cfg config.App
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the test.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := config.App{
		GinMode:       "test",
		JWTSecret:     "test-secret",
		TokenTTLDays:  7,
		PaymentSecret: "gateway-secret",
		AdminEmail:    "admin@test.local",
		DeliveryFee:   40,
		TaxPercent:    5,
	}

	h := handlers.New(db, mailer.NewConsole(), cfg)
	limiter, err := middleware.NewRateLimiter(1000, time.Minute, 128)
	require.NoError(t, err)

	r := gin.New()
	routes.Setup(r, h, cfg, limiter)

	return &env{db: db, r: r, cfg: cfg}
}

// envelope mirrors the JSON response envelope for assertions.
type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
}

// do performs a request against the router, optionally authenticated as a
// user via the token cookie.
func (e *env) do(t *testing.T, method, path string, body interface{}, as *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := middleware.GenerateToken(as, e.cfg)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}

	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (e *env) createUser(t *testing.T, name, email string, role models.UserRole) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

// seedKitchen creates an approved, open kitchen for a seller.
func (e *env) seedKitchen(t *testing.T, seller models.User, name string) models.Kitchen {
	t.Helper()
	kitchen := models.Kitchen{
		SellerID: seller.ID,
		Name:     name,
		Address:  "12 MG Road",
		Status:   models.KitchenApproved,
		IsActive: true,
		IsOpen:   true,
	}
	require.NoError(t, e.db.Create(&kitchen).Error)
	return kitchen
}

func (e *env) seedMenuItem(t *testing.T, kitchen models.Kitchen, name string, price float64) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		KitchenID:   kitchen.ID,
		SellerID:    kitchen.SellerID,
		Name:        name,
		Price:       price,
		IsAvailable: true,
	}
	require.NoError(t, e.db.Create(&item).Error)
	return item
}
