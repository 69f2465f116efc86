package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lavosystem/lavo-go/internal/datastore"
	"github.com/lavosystem/lavo-go/internal/security"
)

func TestRegister(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetUserByEmail", "ana@lavo.com").Return(nil, notFoundErr())
	ds.On("CreateUser", mock.MatchedBy(func(u *datastore.User) bool {
		return u.Email == "ana@lavo.com" &&
			u.Role == datastore.RoleLojista &&
			security.CheckPassword("senha123", u.Password)
	})).Return(nil)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"Ana@Lavo.com","password":"senha123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// the password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "senha123")
	assert.NotContains(t, rec.Body.String(), "password")
	ds.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetUserByEmail", "ana@lavo.com").Return(&datastore.User{ID: 1, Email: "ana@lavo.com"}, nil)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@lavo.com","password":"senha123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "CreateUser")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@lavo.com","password":"senha123","role":"SUPERUSER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ds.AssertNotCalled(t, "CreateUser")
}

func TestLogin(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	hash, err := security.HashPassword("senha123", 4)
	require.NoError(t, err)
	ds.On("GetUserByEmail", "ana@lavo.com").Return(&datastore.User{
		ID: 7, Name: "Ana", Email: "ana@lavo.com", Password: hash, Role: datastore.RoleAdmin,
	}, nil)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/login",
		`{"email":"ana@lavo.com","password":"senha123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, uint(7), resp.User.ID)

	claims, err := c.Tokens.VerifyToken(resp.Token, security.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, datastore.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	hash, err := security.HashPassword("senha123", 4)
	require.NoError(t, err)
	ds.On("GetUserByEmail", "ana@lavo.com").Return(&datastore.User{
		ID: 7, Email: "ana@lavo.com", Password: hash,
	}, nil)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/login",
		`{"email":"ana@lavo.com","password":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetUserByEmail", "ghost@lavo.com").Return(nil, notFoundErr())

	rec := jsonRequest(c, http.MethodPost, "/api/auth/login",
		`{"email":"ghost@lavo.com","password":"senha123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecoverPasswordHidesAccountExistence(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetUserByEmail", "ana@lavo.com").Return(&datastore.User{ID: 7, Email: "ana@lavo.com"}, nil)
	ds.On("GetUserByEmail", "ghost@lavo.com").Return(nil, notFoundErr())

	known := jsonRequest(c, http.MethodPost, "/api/auth/recover", `{"email":"ana@lavo.com"}`)
	unknown := jsonRequest(c, http.MethodPost, "/api/auth/recover", `{"email":"ghost@lavo.com"}`)

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())
}

func TestResetPassword(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	resetToken, err := c.Tokens.GenerateResetToken(7)
	require.NoError(t, err)

	ds.On("UpdateUserPassword", uint(7), mock.MatchedBy(func(hash string) bool {
		return security.CheckPassword("nova-senha", hash)
	})).Return(nil)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/reset",
		`{"token":"`+resetToken+`","newPassword":"nova-senha"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ds.AssertExpectations(t)
}

func TestResetPasswordRejectsLoginToken(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	loginToken, err := c.Tokens.GenerateToken(7, datastore.RoleAdmin)
	require.NoError(t, err)

	rec := jsonRequest(c, http.MethodPost, "/api/auth/reset",
		`{"token":"`+loginToken+`","newPassword":"nova-senha"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ds.AssertNotCalled(t, "UpdateUserPassword")
}

func authedRequest(c *Controller, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(""))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func TestGetUsersRequiresAdmin(t *testing.T) {
	ds := new(MockDataStore)
	c := newTestController(t, ds)

	ds.On("GetAllUsers").Return([]datastore.User{{ID: 1, Name: "Ana"}}, nil)

	adminToken, err := c.Tokens.GenerateToken(1, datastore.RoleAdmin)
	require.NoError(t, err)
	lojistaToken, err := c.Tokens.GenerateToken(2, datastore.RoleLojista)
	require.NoError(t, err)

	rec := authedRequest(c, http.MethodGet, "/api/auth/users", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = authedRequest(c, http.MethodGet, "/api/auth/users", lojistaToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/auth/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
