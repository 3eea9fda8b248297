package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdelivery "taskpilot-backend/internal/auth/delivery"
	authdomain "taskpilot-backend/internal/auth/domain"
	authdto "taskpilot-backend/internal/auth/dto"
	authrepo "taskpilot-backend/internal/auth/repository"
	authusecase "taskpilot-backend/internal/auth/usecase"
	"taskpilot-backend/internal/notification"
	"taskpilot-backend/internal/task/domain"
	"taskpilot-backend/internal/task/repository"
	"taskpilot-backend/internal/task/scheduler"
	"taskpilot-backend/internal/task/usecase"
	"taskpilot-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHTTP(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.DeviceToken{}))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: time.Hour,
	}

	userRepo := authrepo.NewUserRepository(db)
	deviceRepo := authrepo.NewDeviceTokenRepository(db)
	authUc := authusecase.NewAuthUsecase(userRepo, deviceRepo, cfg)

	store := repository.NewGormTaskStore(db)
	taskUc := usecase.NewTaskUsecase(store)
	reminders := scheduler.NewReminderScheduler(store, notification.NewLogNotifier(), time.Minute)

	taskHandler := NewTaskHandler(taskUc, reminders)

	r := gin.New()
	tasks := r.Group("/api/tasks")
	tasks.Use(authdelivery.AuthMiddleware(authUc))
	{
		tasks.GET("", taskHandler.GetTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/stats", taskHandler.GetStats)
		tasks.GET("/suggestions", taskHandler.GetSuggestions)
		tasks.GET("/reminders/upcoming", taskHandler.GetUpcomingReminders)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
		tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
	}

	resp, err := authUc.Register(&authdto.RegisterRequest{
		Email:     "ada@example.com",
		Password:  "hunter22",
		FirstName: "Ada",
	})
	require.NoError(t, err)

	return r, "Bearer " + resp.AccessToken
}

func doJSON(t *testing.T, r *gin.Engine, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTasksHTTP_RequiresAuth(t *testing.T) {
	r, _ := setupHTTP(t)

	rec := doJSON(t, r, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTasksHTTP_HappyPath(t *testing.T) {
	r, authz := setupHTTP(t)

	// create
	rec := doJSON(t, r, http.MethodPost, "/api/tasks", authz, gin.H{
		"title":    "Pay bills",
		"priority": "high",
		"due_date": "2024-01-15",
		"tags":     []string{"finance"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.TaskStatusPending, created.Status)

	// list
	rec = doJSON(t, r, http.MethodGet, "/api/tasks", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Tasks []domain.Task `json:"tasks"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Total)

	// stats before completion
	rec = doJSON(t, r, http.MethodGet, "/api/tasks/stats", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.HighPriority)

	// complete via the status shortcut
	rec = doJSON(t, r, http.MethodPatch, "/api/tasks/"+created.ID+"/status", authz, gin.H{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/api/tasks/stats", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 1, stats.Completed)

	// delete, then 404
	rec = doJSON(t, r, http.MethodDelete, "/api/tasks/"+created.ID, authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/tasks/"+created.ID, authz, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasksHTTP_ValidationFailure(t *testing.T) {
	r, authz := setupHTTP(t)

	rec := doJSON(t, r, http.MethodPost, "/api/tasks", authz, gin.H{
		"title":    "   ",
		"due_time": "25:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
	assert.Contains(t, rec.Body.String(), "HH:MM")
}

func TestTasksHTTP_UpdateAbsent(t *testing.T) {
	r, authz := setupHTTP(t)

	rec := doJSON(t, r, http.MethodPut, "/api/tasks/ghost", authz, gin.H{
		"title": "whatever",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasksHTTP_SearchAndFilter(t *testing.T) {
	r, authz := setupHTTP(t)

	for _, body := range []gin.H{
		{"title": "Buy milk", "tags": []string{"errands"}},
		{"title": "Walk dog", "status": "in-progress"},
	} {
		rec := doJSON(t, r, http.MethodPost, "/api/tasks", authz, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, r, http.MethodGet, "/api/tasks?q=milk", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Tasks []domain.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Tasks, 1)
	assert.Equal(t, "Buy milk", listResp.Tasks[0].Title)

	rec = doJSON(t, r, http.MethodGet, "/api/tasks?status=in-progress", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Tasks, 1)
	assert.Equal(t, "Walk dog", listResp.Tasks[0].Title)
}

func TestTasksHTTP_UpcomingReminders(t *testing.T) {
	r, authz := setupHTTP(t)

	at := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	rec := doJSON(t, r, http.MethodPost, "/api/tasks", authz, gin.H{
		"title":            "Standup",
		"reminder_enabled": true,
		"reminder_at":      at,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/api/tasks/reminders/upcoming", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Tasks []domain.Task `json:"tasks"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Total)
}
