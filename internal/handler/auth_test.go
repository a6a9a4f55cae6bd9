package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The API never hosts its own sign-in flow — /login and /register just
// bounce the browser to the external identity provider.

func TestLogin_RedirectsToProvider(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(&mockNoteServicer{}, noTags()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://auth.example.com/login", rec.Header().Get("Location"))
}

func TestRegister_RedirectsToProvider(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(&mockNoteServicer{}, noTags()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://auth.example.com/register", rec.Header().Get("Location"))
}
