package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffin-market-api/models"
)

func TestSignupVerifyLogin(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "password123",
		"role":     "customer",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, decode(t, w).Success)

	// The code is delivered by email; read it from the staging record.
	var temp models.TempUser
	require.NoError(t, e.db.Where("email = ?", "ravi@example.com").First(&temp).Error)
	require.Len(t, temp.Code, 6)

	w = e.do(t, http.MethodPost, "/api/auth/verify", map[string]interface{}{
		"email": "ravi@example.com",
		"code":  temp.Code,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Result().Cookies(), "verify should set the token cookie")

	var user models.User
	require.NoError(t, e.db.Where("email = ?", "ravi@example.com").First(&user).Error)
	assert.Equal(t, models.RoleCustomer, user.Role)

	var tempCount int64
	e.db.Model(&models.TempUser{}).Where("email = ?", "ravi@example.com").Count(&tempCount)
	assert.Zero(t, tempCount, "temp record must be deleted after promotion")

	w = e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "ravi@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestSignupExistingEmailConflict(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "Ravi", "ravi@example.com", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"name":     "Impostor",
		"email":    "ravi@example.com",
		"password": "password123",
		"role":     "customer",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestVerifyWrongCodeDoesNotPromote(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "password123",
		"role":     "customer",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/verify", map[string]interface{}{
		"email": "ravi@example.com",
		"code":  "000000",
	}, nil)
	// With one in a million odds the random code is actually 000000;
	// look up the real code and make sure we didn't send it.
	var temp models.TempUser
	require.NoError(t, e.db.Where("email = ?", "ravi@example.com").First(&temp).Error)
	if temp.Code != "000000" {
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var count int64
		e.db.Model(&models.User{}).Where("email = ?", "ravi@example.com").Count(&count)
		assert.Zero(t, count)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "Ravi", "ravi@example.com", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "ravi@example.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuard(t *testing.T) {
	e := newEnv(t)
	customer := e.createUser(t, "Ravi", "ravi@example.com", models.RoleCustomer)

	w := e.do(t, http.MethodGet, "/api/seller/orders", nil, &customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidationFailureReturnsFieldErrors(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"name": "Ravi",
		"role": "customer",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	require.NotNil(t, resp.Data)
	fields, ok := resp.Data["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestPasswordResetFlow(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "Ravi", "ravi@example.com", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]interface{}{
		"email": "ravi@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reset models.PasswordReset
	require.NoError(t, e.db.Where("email = ?", "ravi@example.com").First(&reset).Error)

	w = e.do(t, http.MethodPost, "/api/auth/reset-password", map[string]interface{}{
		"email":    "ravi@example.com",
		"code":     reset.Code,
		"password": "brand-new-pass",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The code is single-use.
	w = e.do(t, http.MethodPost, "/api/auth/reset-password", map[string]interface{}{
		"email":    "ravi@example.com",
		"code":     reset.Code,
		"password": "another-pass",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "ravi@example.com",
		"password": "brand-new-pass",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
