package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/auth"
	"github.com/salontid/salontid-api/internal/config"
	dbpkg "github.com/salontid/salontid-api/internal/db"
	"github.com/salontid/salontid-api/internal/models"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))

	cfg := &config.Config{JWTSecret: "test-secret", SessionTTLHours: 12}
	tokens := auth.NewRefreshTokenService(gdb, zap.NewNop())
	h := NewAuthHandler(gdb, cfg, tokens, zap.NewNop())

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/forgot-password", h.ForgotPassword)
	return r, gdb
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedLoginUser(t *testing.T, gdb *gorm.DB, tenantStatus string) *models.User {
	t.Helper()
	tenant := models.Tenant{ID: "t1", Name: "Salong", Subdomain: "salong", Status: tenantStatus}
	require.NoError(t, gdb.Create(&tenant).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte("hemmelig123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		TenantID: "t1", Name: "Kari", Email: "kari@salong.no",
		PasswordHash: string(hashed), Role: "owner", IsActive: true,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func TestRegister(t *testing.T) {
	r, gdb := newAuthTestRouter(t)

	body := gin.H{
		"salon_name":      "Salong Saks",
		"salon_subdomain": "Saks",
		"name":            "Ola",
		"email":           "Ola@Saks.no",
		"password":        "hemmelig123",
	}

	w := postJSON(t, r, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token  string `json:"token"`
		Tenant struct {
			Subdomain string `json:"subdomain"`
			Status    string `json:"status"`
		} `json:"tenant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "saks", resp.Tenant.Subdomain, "subdomain is lowercased")
	assert.Equal(t, "trial", resp.Tenant.Status)

	// The refresh cookie rides along.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	var user models.User
	require.NoError(t, gdb.Where("email = ?", "ola@saks.no").First(&user).Error)
	assert.Equal(t, "owner", user.Role)

	t.Run("duplicate subdomain", func(t *testing.T) {
		body["email"] = "annen@saks.no"
		w := postJSON(t, r, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "subdomain_already_exists")
	})

	t.Run("duplicate email", func(t *testing.T) {
		body["salon_subdomain"] = "annen"
		body["email"] = "ola@saks.no"
		w := postJSON(t, r, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "email_already_exists")
	})

	t.Run("short password", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/register", gin.H{
			"salon_name": "S", "salon_subdomain": "kort",
			"name": "K", "email": "k@k.no", "password": "kort",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	r, gdb := newAuthTestRouter(t)
	seedLoginUser(t, gdb, "active")

	t.Run("email is case insensitive", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{
			"email": "KARI@Salong.NO", "password": "hemmelig123",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"token"`)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{
			"email": "kari@salong.no", "password": "feilpassord",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", gin.H{
			"email": "ukjent@salong.no", "password": "hemmelig123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		require.NoError(t, gdb.Model(&models.User{}).
			Where("email = ?", "kari@salong.no").
			Update("is_active", false).Error)
		w := postJSON(t, r, "/api/auth/login", gin.H{
			"email": "kari@salong.no", "password": "hemmelig123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")

		require.NoError(t, gdb.Model(&models.User{}).
			Where("email = ?", "kari@salong.no").
			Update("is_active", true).Error)
	})
}

func TestLoginSuspendedTenant(t *testing.T) {
	r, gdb := newAuthTestRouter(t)
	seedLoginUser(t, gdb, "suspended")

	w := postJSON(t, r, "/api/auth/login", gin.H{
		"email": "kari@salong.no", "password": "hemmelig123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "tenant_suspended")
}

func TestForgotPasswordNeverEnumerates(t *testing.T) {
	r, gdb := newAuthTestRouter(t)
	seedLoginUser(t, gdb, "active")

	known := postJSON(t, r, "/api/auth/forgot-password", gin.H{"email": "kari@salong.no"})
	unknown := postJSON(t, r, "/api/auth/forgot-password", gin.H{"email": "finnesikke@salong.no"})

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, strings.TrimSpace(known.Body.String()), strings.TrimSpace(unknown.Body.String()))
}
