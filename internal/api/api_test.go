package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/notify"
	"spartanfitness/api/internal/repository/memory"
	"spartanfitness/api/internal/service"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	tokens *service.TokenManager
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	tokens := service.NewTokenManager("api-test-secret", "spartan-test", time.Hour, time.Hour)
	email := notify.NewLogProvider(log, "noreply@example.com")

	dispatcher := events.NewDispatcher(log)
	service.RegisterHandlers(dispatcher,
		service.NewExerciseDeletedHandler(store.Users(), store.Coaches(), store.Exercises(), store.Workouts(), email, log),
		service.NewCoachApplicationHandler(store.Users(), store.Coaches(), email, log),
	)

	svc := Services{
		Auth: service.NewAuthService(store.Users(), store.Coaches(), store.Administrators(), store.PasswordResetTokens(),
			tokens, email, service.AuthConfig{FrontendBaseURL: "https://app.example.com", ResetTokenTTL: time.Hour}, log),
		Exercises:    service.NewExerciseService(store.Exercises(), store.Muscles(), store.MuscleGroups(), dispatcher, log),
		MuscleGroups: service.NewMuscleGroupService(store.MuscleGroups(), log),
		Muscles:      service.NewMuscleService(store.Muscles(), store.MuscleGroups(), log),
		Workouts:     service.NewWorkoutService(store.Workouts(), store.Exercises(), store.Coaches(), log),
		Coaches:      service.NewCoachService(store.Coaches(), store.Users()),
		Applications: service.NewCoachApplicationService(store.CoachApplications(), store.Coaches(), dispatcher, log),
		Users:        service.NewUserService(store.Users(), store.Exercises(), store.Muscles(), store.MuscleGroups(), store.Workouts()),
		Uploads:      service.NewUploadService(store.Uploads(), bucketStub{}, log),
	}

	router := NewRouter(log)
	SetupRoutes(router, tokens, limiter, svc)
	return &testServer{router: router, store: store, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// coachToken creates a coach account directly in the store and returns its token.
func (s *testServer) coachToken(t *testing.T, email string) (string, *domain.Coach) {
	t.Helper()
	ctx := context.Background()
	u := domain.NewUser("Carl", "Coach", "", email, "x")
	u.GrantRole(domain.RoleCoach)
	require.NoError(t, s.store.Users().Create(ctx, u))
	c := domain.NewCoach(u.ID, "")
	require.NoError(t, s.store.Coaches().Create(ctx, c))
	token, err := s.tokens.IssueAccess(u, c, nil)
	require.NoError(t, err)
	return token, c
}

func (s *testServer) userToken(t *testing.T, email string) (string, *domain.User) {
	t.Helper()
	u := domain.NewUser("Una", "User", "", email, "x")
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	token, err := s.tokens.IssueAccess(u, nil, nil)
	require.NoError(t, err)
	return token, u
}

// bucketStub signs every URL without reaching any object store.
type bucketStub struct{}

func (bucketStub) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?op=put", nil
}

func (bucketStub) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?op=get", nil
}

func (bucketStub) DeleteObject(context.Context, string) error { return nil }

func (bucketStub) PublicURL(key string) string { return "https://cdn.example.com/" + key }

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[map[string]any](t, w)
	assert.NotEmpty(t, registered["token"])
	user := registered["user"].(map[string]any)
	assert.NotContains(t, user, "passwordHash")

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "password": "correct horse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User.DuplicateEmail", decode[map[string]any](t, w)["code"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ann@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ann@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]any](t, w)["token"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user["id"], decode[map[string]any](t, w)["user"].(map[string]any)["id"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/password-reset/request", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestValidationErrorShape(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "bad"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[struct {
		Error  string              `json:"error"`
		Code   string              `json:"code"`
		Errors map[string][]string `json:"errors"`
	}](t, w)
	assert.Equal(t, "General.Validation", body.Code)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "firstName")
	assert.Contains(t, body.Errors, "password")

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty body")
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t, nil)
	userToken, _ := s.userToken(t, "una@example.com")
	exercise := map[string]any{"name": "Squat", "description": "d", "image": "i", "video": "v"}

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "no token", token: "", status: http.StatusUnauthorized},
		{name: "garbage token", token: "not.a.jwt", status: http.StatusUnauthorized},
		{name: "plain user", token: userToken, status: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/exercises", tt.token, exercise)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := s.do(t, http.MethodGet, "/api/v1/coach-applications/pending", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExerciseLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token, coach := s.coachToken(t, "carl@example.com")

	w := s.do(t, http.MethodPost, "/api/v1/exercises", token, map[string]any{
		"name": "Squat", "description": "Sit down, stand up", "image": "https://img/squat", "video": "https://vid/squat",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Exercise](t, w)
	assert.Equal(t, coach.ID, created.CreatorID)

	w = s.do(t, http.MethodGet, "/api/v1/exercises/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/exercises/page?ls=10&s=name&o=asc&q=squat", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[PageResponse[domain.Exercise]](t, w)
	assert.Equal(t, 1, page.PageCount)
	require.Len(t, page.Items, 1)

	w = s.do(t, http.MethodGet, "/api/v1/exercises/page?ls=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/exercises/page?ls=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/exercises/page?ls=1&p=5", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/exercises/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/coaches/"+coach.ID.String()+"/workouts", token, map[string]any{
		"name": "Legs",
		"workoutExercises": []map[string]any{{
			"orderNumber": 1, "exerciseId": created.ID.String(), "sets": 3, "minReps": 8, "maxReps": 12, "exerciseType": "Default",
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	workout := decode[domain.Workout](t, w)

	w = s.do(t, http.MethodDelete, "/api/v1/exercises/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/exercises/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/coaches/"+coach.ID.String()+"/workouts/"+workout.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[domain.Workout](t, w).WorkoutExercises)

	w = s.do(t, http.MethodGet, "/api/v1/coaches/all/workouts/page", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[PageResponse[domain.Workout]](t, w).Items, 1)
}

func TestSavedItems(t *testing.T) {
	s := newTestServer(t, nil)
	coachToken, _ := s.coachToken(t, "carl@example.com")
	token, u := s.userToken(t, "una@example.com")
	otherToken, _ := s.userToken(t, "olga@example.com")

	w := s.do(t, http.MethodPost, "/api/v1/muscle-groups", coachToken, map[string]any{"name": "Legs"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	group := decode[domain.MuscleGroup](t, w)

	base := "/api/v1/users/" + u.ID.String() + "/saved/muscle-groups"
	w = s.do(t, http.MethodPatch, base+"/add", otherToken, map[string]any{"muscleGroupIds": []string{group.ID.String()}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, base+"/add", token, map[string]any{"muscleGroupIds": []string{group.ID.String()}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []domain.MuscleGroupID{group.ID}, decode[domain.User](t, w).SavedMuscleGroupIDs)

	w = s.do(t, http.MethodGet, base+"/page", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[PageResponse[domain.MuscleGroup]](t, w).Items, 1)

	w = s.do(t, http.MethodPatch, base+"/remove", token, map[string]any{"muscleGroupId": group.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[domain.User](t, w).SavedMuscleGroupIDs)
}

func TestCoachApplicationRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	token, u := s.userToken(t, "ann@example.com")

	admin := domain.NewUser("Ada", "Admin", "", "ada@example.com", "x")
	admin.GrantRole(domain.RoleAdministrator)
	require.NoError(t, s.store.Users().Create(ctx, admin))
	profile := domain.NewAdministrator(admin.ID)
	require.NoError(t, s.store.Administrators().Create(ctx, profile))
	adminToken, err := s.tokens.IssueAccess(admin, nil, profile)
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/v1/coach-applications", token, map[string]string{"note": "Certified"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	application := decode[domain.CoachApplication](t, w)

	w = s.do(t, http.MethodPost, "/api/v1/coach-applications", token, map[string]string{"note": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/coach-applications/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.CoachApplication](t, w), 1)

	w = s.do(t, http.MethodPost, "/api/v1/coach-applications/"+application.ID.String()+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.ApplicationApproved, decode[domain.CoachApplication](t, w).Status)

	coach, err := s.store.Coaches().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/v1/coaches/"+coach.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Una", decode[map[string]any](t, w)["firstName"])
}

func TestRateLimitOnAuth(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, logrus.New())
	s := newTestServer(t, limiter)

	body := map[string]string{"email": "x@example.com", "password": "whatever"}
	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Other routes are not limited.
	w = s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.userToken(t, "owner@example.com")
	other, _ := s.userToken(t, "other@example.com")

	w := s.do(t, http.MethodPost, "/api/v1/uploads/images", "", map[string]any{"fileName": "a.png", "contentType": "image/png"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/uploads/images", owner, map[string]any{"fileName": "a.svg", "contentType": "image/svg+xml"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/uploads/images", owner, map[string]any{"fileName": "a.png", "contentType": "image/png", "size": 100})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ticket := decode[service.UploadTicket](t, w)
	assert.Contains(t, ticket.UploadURL, "op=put")

	path := "/api/v1/uploads/" + ticket.UploadID.String()
	w = s.do(t, http.MethodGet, path+"/download", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "https://bucket.example.com/"+ticket.ObjectKey+"?op=get", body["downloadUrl"])

	w = s.do(t, http.MethodGet, path+"/download", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/uploads/nope/download", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/uploads", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Upload](t, w), 1)

	w = s.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/uploads", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
