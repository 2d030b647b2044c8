package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/models"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]*repository.User
	created []*repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*repository.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *repository.User) error {
	s.byEmail[user.Email] = user
	s.created = append(s.created, user)
	return nil
}

func (s *fakeUserStore) List(_ context.Context) ([]repository.User, error) {
	users := make([]repository.User, 0, len(s.created))
	for _, u := range s.created {
		users = append(users, *u)
	}
	return users, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func newUserRouter(store *fakeUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewUserHandler(store)
	router.POST("/api/v1/users", handler.CreateUser)
	router.GET("/api/v1/users", handler.ListUsers)
	return router
}

func TestCreateUser_Success(t *testing.T) {
	store := newFakeUserStore()
	router := newUserRouter(store)

	body, _ := json.Marshal(models.CreateUserRequest{
		Name:  "ana",
		Email: "ana@x.com",
		Phone: "+573001234567",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, "ana", store.created[0].Name)
	assert.NotEmpty(t, store.created[0].ID)

	var envelope models.ResponseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}

func TestCreateUser_ValidationFailure(t *testing.T) {
	store := newFakeUserStore()
	router := newUserRouter(store)

	tests := []struct {
		name string
		body string
	}{
		{"short name", `{"name": "a", "email": "ana@x.com"}`},
		{"bad email", `{"name": "ana", "email": "no-es-correo"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, store.created)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	router := newUserRouter(store)

	body := `{"name": "ana", "email": "ana@x.com"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListUsers_ReturnsCreatedUsers(t *testing.T) {
	store := newFakeUserStore()
	router := newUserRouter(store)

	store.Create(context.Background(), &repository.User{ID: "1", Name: "ana", Email: "ana@x.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope models.ResponseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	users, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, users, 1)
}
