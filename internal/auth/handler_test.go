package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/store"
)

func newHandler(t *testing.T, hasher PasswordHasher) (*Handler, *store.Store) {
	t.Helper()
	s := store.New(store.NewFileBackend(filepath.Join(t.TempDir(), "database.json")))
	return NewHandler(s, hasher, logger.Nop()), s
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	h, s := newHandler(t, PlainHasher{})

	rec := post(h.Register, `{"username":"  farmer1 ","password":"secure123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, rec.Body.String())

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "farmer1", doc.Users[0].Username)
	assert.Equal(t, "secure123", doc.Users[0].Password)
}

func TestRegisterDuplicate(t *testing.T) {
	h, s := newHandler(t, PlainHasher{})

	require.Equal(t, http.StatusCreated, post(h.Register, `{"username":"farmer1","password":"secure123"}`).Code)
	rec := post(h.Register, `{"username":"farmer1","password":"another99"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, rec.Body.String())

	rec = post(h.Register, `{"username":" farmer1","password":"another99"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)
}

func TestRegisterIsCaseSensitive(t *testing.T) {
	h, _ := newHandler(t, PlainHasher{})

	require.Equal(t, http.StatusCreated, post(h.Register, `{"username":"farmer1","password":"secure123"}`).Code)
	assert.Equal(t, http.StatusCreated, post(h.Register, `{"username":"Farmer1","password":"secure123"}`).Code)
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"missing password", `{"username":"farmer1"}`, "Username and password are required"},
		{"null username", `{"username":null,"password":"secure123"}`, "Username and password are required"},
		{"short username before short password", `{"username":"abc","password":"abc"}`, "Username must be at least 4 characters"},
		{"padded short username", `{"username":"  ab  ","password":"secure123"}`, "Username must be at least 4 characters"},
		{"short password", `{"username":"farmer1","password":"12345"}`, "Password must be at least 6 characters"},
		{"not json", `username=farmer1`, "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, s := newHandler(t, PlainHasher{})

			rec := post(h.Register, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"`+tc.msg+`"}`, rec.Body.String())

			doc, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, doc.Users)
		})
	}
}

func TestLogin(t *testing.T) {
	h, _ := newHandler(t, PlainHasher{})
	require.Equal(t, http.StatusCreated, post(h.Register, `{"username":"farmer1","password":"secure123"}`).Code)

	rec := post(h.Login, `{"username":"farmer1","password":"secure123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Login successful","username":"farmer1"}`, rec.Body.String())

	wrongPassword := post(h.Login, `{"username":"farmer1","password":"nope1234"}`)
	unknownUser := post(h.Login, `{"username":"farmer2","password":"secure123"}`)
	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
	}

	rec = post(h.Login, `{"username":"farmer1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Username and password are required"}`, rec.Body.String())
}

func TestLoginWithBcrypt(t *testing.T) {
	h, s := newHandler(t, BcryptHasher{Cost: 4})
	require.Equal(t, http.StatusCreated, post(h.Register, `{"username":"farmer1","password":"secure123"}`).Code)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "secure123", doc.Users[0].Password)

	assert.Equal(t, http.StatusOK, post(h.Login, `{"username":"farmer1","password":"secure123"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(h.Login, `{"username":"farmer1","password":"secure124"}`).Code)
}
