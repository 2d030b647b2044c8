package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/models"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventReader struct {
	records map[string]*repository.EventRecord
	err     error
}

func (r *fakeEventReader) FindByID(_ context.Context, id string) (*repository.EventRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	record, ok := r.records[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return record, nil
}

func newEventRouter(reader *fakeEventReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewEventHandler(reader)
	router.GET("/api/v1/events/:id", handler.GetEvent)
	return router
}

func TestGetEvent_Found(t *testing.T) {
	id := "7b58e9a1-4a36-4a2e-bb1d-9a9a5a3f2c10"
	reader := &fakeEventReader{records: map[string]*repository.EventRecord{
		id: {ID: id, ActionType: "REGISTRO_USUARIO", Usuario: "ana", Correo: "ana@x.com"},
	}}
	router := newEventRouter(reader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+id, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope models.ResponseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	record, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, id, record["id"])
	assert.Equal(t, "REGISTRO_USUARIO", record["tipoAccion"])
}

func TestGetEvent_NotFound(t *testing.T) {
	reader := &fakeEventReader{records: map[string]*repository.EventRecord{}}
	router := newEventRouter(reader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/unknown-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope models.ResponseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestGetEvent_StoreFailure(t *testing.T) {
	reader := &fakeEventReader{err: errors.New("db down")}
	router := newEventRouter(reader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/any", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
