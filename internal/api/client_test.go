package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/wordbook/pkg/models"
)

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *observer.ObservedLogs) {
	t.Helper()
	srv := httptest.NewServer(http.StripPrefix("/api", mux))
	t.Cleanup(srv.Close)
	core, logs := observer.New(zapcore.WarnLevel)
	return New(srv.URL+"/api", WithLogger(zap.New(core))), logs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCollectionReadPassesQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /words", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("list_id"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []models.Word{
			{ID: 1, Word: "apple", Translations: []models.Translation{{Translation: "苹果", Type: "n"}}, ListID: 3},
		})
	})
	c, logs := newTestClient(t, mux)

	words := c.GetWords(context.Background(), 3, 20)
	require.Len(t, words, 1)
	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, "苹果", words[0].PrimaryTranslation())
	assert.Zero(t, logs.Len())
}

func TestCollectionReadDegradesToEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /wrongwords", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "database unavailable"})
	})
	mux.HandleFunc("GET /favorite", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"word_id": "not a number"`))
	})
	mux.HandleFunc("GET /review", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`null`))
	})
	c, logs := newTestClient(t, mux)
	ctx := context.Background()

	wrong := c.GetWrongWords(ctx, 1)
	assert.NotNil(t, wrong)
	assert.Empty(t, wrong)

	favs := c.GetFavoriteWords(ctx, 1)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)

	reviews := c.GetReviewSchedule(ctx, 1)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "/wrongwords", first.ContextMap()["path"])
	assert.Contains(t, first.ContextMap()["error"], "database unavailable")
	assert.Contains(t, logs.All()[1].ContextMap()["error"], ErrMalformedResponse.Error())
}

func TestCollectionReadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	c := New(base, WithLogger(zap.New(core)), WithTimeout(time.Second))

	assert.Empty(t, c.GetStudyLogs(context.Background(), 1, 0))
	assert.Empty(t, c.GetUsers(context.Background()))
	assert.Equal(t, models.MasterySummary{}, c.GetMasteryStatistics(context.Background(), 1))
	res := c.GlobalSearch(context.Background(), "app", "")
	assert.NotNil(t, res.Words)
	assert.NotNil(t, res.Lists)
	assert.NotNil(t, res.Users)
	assert.Equal(t, 4, logs.Len())
}

func TestGetStudyLogsDefaultLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /studylog", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("limit"))
		assert.Equal(t, "42", r.URL.Query().Get("user_id"))
		writeJSON(w, http.StatusOK, []models.StudyLog{})
	})
	c, _ := newTestClient(t, mux)
	assert.Empty(t, c.GetStudyLogs(context.Background(), 42, 0))
}

func TestWritePropagatesBackendDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /wordlists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "list name is required"})
	})
	mux.HandleFunc("DELETE /words/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c, logs := newTestClient(t, mux)

	_, err := c.CreateWordList(context.Background(), models.WordList{})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "list name is required", se.Detail)

	err = c.DeleteWord(context.Background(), 9)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Not Found", se.Detail)

	assert.Zero(t, logs.Len(), "writes are not logged as degraded reads")
}

func TestWriteMalformedBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /study/log", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})
	c, _ := newTestClient(t, mux)

	_, err := c.LogStudy(context.Background(), models.StudyLogRequest{UserID: 1, WordID: 2, Status: models.StatusKnown})
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username == "alice" && req.Password == "secret" && req.Role == models.RoleStudent {
			writeJSON(w, http.StatusOK, models.AuthResponse{
				Success: true,
				User:    &models.User{ID: 7, Username: "alice", Role: models.RoleStudent},
			})
			return
		}
		writeJSON(w, http.StatusOK, models.AuthResponse{Message: "invalid username or password"})
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	user, err := c.Login(ctx, "alice", "secret", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	_, err = c.Login(ctx, "alice", "secret", models.RoleAdmin)
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalid username or password", ae.Message)
}

func TestLoginUnauthorizedStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "account locked"})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "bob", "x", models.RoleStudent)
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "account locked", ae.Message)
}

func TestGetStudyStatisticsParallelFold(t *testing.T) {
	var calls atomic.Int32
	today := time.Now()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /statistics/mastery/5", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, models.MasterySummary{TotalWords: 10, MasteredWords: 4})
	})
	mux.HandleFunc("GET /statistics/categories/5", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, []models.CategoryStat{{Category: "CET4", Progress: 40}})
	})
	mux.HandleFunc("GET /studylog", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		acc := 80.0
		writeJSON(w, http.StatusOK, []models.StudyLog{
			{ID: 1, StudyTime: models.NewTimestamp(today), Status: models.StatusKnown, AccuracyRate: &acc},
			{ID: 2, StudyTime: models.NewTimestamp(today.AddDate(0, 0, -1)), Status: models.StatusUnknown},
		})
	})
	srv := httptest.NewServer(http.StripPrefix("/api", mux))
	defer srv.Close()
	c := New(srv.URL+"/api", WithStatsLogLimit(250))

	st := c.GetStudyStatistics(context.Background(), 5, today)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 10, st.TotalWords)
	assert.Equal(t, 4, st.MasteredWords)
	assert.Equal(t, 2, st.StudyDays)
	assert.Equal(t, 2, st.Streak)
	assert.InDelta(t, 40.0, st.AverageAccuracy, 1e-9)
	assert.Equal(t, 1, st.WeeklyProgress[6].Count)
	require.Len(t, st.CategoryProgress, 1)
	assert.Equal(t, "CET4", st.CategoryProgress[0].Category)
}

func TestGetStudyStatisticsBackendDown(t *testing.T) {
	mux := http.NewServeMux()
	c, _ := newTestClient(t, mux)

	st := c.GetStudyStatistics(context.Background(), 1, time.Now())
	assert.Zero(t, st.TotalWords)
	assert.Zero(t, st.StudyDays)
	assert.Len(t, st.WeeklyProgress, 7)
	assert.Len(t, st.MonthlyData, 6)
	assert.Empty(t, st.CategoryProgress)
}

func TestAddWrongWordDefaultsErrorType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /wrongwords/add", func(w http.ResponseWriter, r *http.Request) {
		var req models.WrongWordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.ErrorTypeMeaning, req.ErrorType)
		writeJSON(w, http.StatusOK, models.WrongWord{ID: 1, WordID: req.WordID, WrongCount: 1, ErrorType: req.ErrorType})
	})
	c, _ := newTestClient(t, mux)

	ww, err := c.AddWrongWord(context.Background(), models.WrongWordRequest{UserID: 1, WordID: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, ww.WrongCount)
}

func TestDetailOf(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"nope"}`, "nope"},
		{"validation list", `{"detail":[{"loc":["body"]}]}`, `[{"loc":["body"]}]`},
		{"message field", `{"message":"bad"}`, "bad"},
		{"plain text", "gateway exploded", "gateway exploded"},
		{"empty", "", "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detailOf([]byte(tt.body), http.StatusBadGateway))
		})
	}
}
