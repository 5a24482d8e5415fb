package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfloor/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLogReader struct {
	mock.Mock
}

func (m *MockLogReader) GetLogs(ctx context.Context, filter Filter) ([]models.AuditLog, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func setupRouter(reader LogReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(reader, zap.NewNop()).RegisterRoutes(router.Group("/api"))
	return router
}

func TestGetLogsFiltersByResource(t *testing.T) {
	reader := new(MockLogReader)
	reader.On("GetLogs", Filter{ResourceType: "product", ResourceID: 4}).Return([]models.AuditLog{
		{ID: 1, ResourceID: 4, ResourceType: "product", Action: "update"},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs?resource_type=product&resource_id=4", nil)
	setupRouter(reader).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	assert.Len(t, logs, 1)
	assert.Equal(t, "update", logs[0].Action)
	reader.AssertExpectations(t)
}

func TestGetLogsRejectsBadResourceID(t *testing.T) {
	reader := new(MockLogReader)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs?resource_id=abc", nil)
	setupRouter(reader).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reader.AssertNotCalled(t, "GetLogs", mock.Anything)
}

func TestGetLogsRepositoryFailure(t *testing.T) {
	reader := new(MockLogReader)
	reader.On("GetLogs", Filter{}).Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs", nil)
	setupRouter(reader).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
