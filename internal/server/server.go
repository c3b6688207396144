// Package server is the reference REST backend of wordbook. Every route
// lives under /api and answers JSON; errors carry {"detail": "..."}.
package server

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/srs"
)

const shutdownTimeout = 5 * time.Second

// Server handles HTTP requests for the wordbook API
type Server struct {
	logger  *zap.Logger
	metrics *Metrics
	sm2     *srs.SM2
	now     func() time.Time
	// combined log on stdout next to the zap access log
	combinedLog bool

	rndMu sync.Mutex
	rnd   *rand.Rand

	users      *database.UserRepository
	words      *database.WordRepository
	lists      *database.WordListRepository
	studyLogs  *database.StudyLogRepository
	reviews    *database.ReviewRepository
	wrongWords *database.WrongWordRepository
	favorites  *database.FavoriteRepository
	checkIns   *database.CheckInRepository
	tests      *database.TestResultRepository
	stats      *database.StatisticsRepository
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithRand fixes the source used to build test questions.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Server) { s.rnd = rnd }
}

// WithCombinedLog adds an Apache combined-format access log on stdout.
func WithCombinedLog() Option {
	return func(s *Server) { s.combinedLog = true }
}

// New creates a server over db.
func New(db *sqlx.DB, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		logger:     logger,
		metrics:    NewMetrics(),
		sm2:        srs.NewSM2(),
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		users:      database.NewUserRepository(db),
		words:      database.NewWordRepository(db),
		lists:      database.NewWordListRepository(db),
		studyLogs:  database.NewStudyLogRepository(db),
		reviews:    database.NewReviewRepository(db),
		wrongWords: database.NewWrongWordRepository(db),
		favorites:  database.NewFavoriteRepository(db),
		checkIns:   database.NewCheckInRepository(db),
		tests:      database.NewTestResultRepository(db),
		stats:      database.NewStatisticsRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the routes without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	// Accounts
	api.HandleFunc("/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete)

	// Vocabulary
	api.HandleFunc("/words", s.listWords).Methods(http.MethodGet)
	api.HandleFunc("/words", s.createWord).Methods(http.MethodPost)
	api.HandleFunc("/words/{id:[0-9]+}", s.getWord).Methods(http.MethodGet)
	api.HandleFunc("/words/{id:[0-9]+}", s.updateWord).Methods(http.MethodPut)
	api.HandleFunc("/words/{id:[0-9]+}", s.deleteWord).Methods(http.MethodDelete)
	api.HandleFunc("/wordlists", s.listWordLists).Methods(http.MethodGet)
	api.HandleFunc("/wordlists", s.createWordList).Methods(http.MethodPost)
	api.HandleFunc("/wordlists/{id:[0-9]+}", s.getWordList).Methods(http.MethodGet)
	api.HandleFunc("/wordlists/{id:[0-9]+}", s.updateWordList).Methods(http.MethodPut)
	api.HandleFunc("/wordlists/{id:[0-9]+}", s.deleteWordList).Methods(http.MethodDelete)

	// Study
	api.HandleFunc("/study/log", s.logStudy).Methods(http.MethodPost)
	api.HandleFunc("/studylog", s.listStudyLogs).Methods(http.MethodGet)
	api.HandleFunc("/test/questions", s.testQuestions).Methods(http.MethodGet)
	api.HandleFunc("/test/submit", s.submitTest).Methods(http.MethodPost)
	api.HandleFunc("/test/history", s.testHistory).Methods(http.MethodGet)

	// Error book and favorites
	api.HandleFunc("/wrongwords", s.listWrongWords).Methods(http.MethodGet)
	api.HandleFunc("/wrongwords/add", s.addWrongWord).Methods(http.MethodPost)
	api.HandleFunc("/wrongwords/mastered", s.masterWrongWord).Methods(http.MethodPost)
	api.HandleFunc("/wrongwords/{id:[0-9]+}", s.deleteWrongWord).Methods(http.MethodDelete)
	api.HandleFunc("/favorite", s.listFavorites).Methods(http.MethodGet)
	api.HandleFunc("/favorite/add", s.addFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorite/{id:[0-9]+}", s.removeFavorite).Methods(http.MethodDelete)

	// Review
	api.HandleFunc("/review", s.listReviews).Methods(http.MethodGet)
	api.HandleFunc("/review/schedule", s.createReview).Methods(http.MethodPost)
	api.HandleFunc("/review/schedule/{id:[0-9]+}", s.updateReview).Methods(http.MethodPut)
	api.HandleFunc("/review/schedule/{id:[0-9]+}/grade", s.gradeReview).Methods(http.MethodPost)

	// Check-in
	api.HandleFunc("/check-in/today", s.checkIn).Methods(http.MethodPost)
	api.HandleFunc("/check-in/logs", s.listCheckIns).Methods(http.MethodGet)
	api.HandleFunc("/check-in/stats", s.checkInStats).Methods(http.MethodGet)

	// Statistics
	api.HandleFunc("/statistics/mastery/{id:[0-9]+}", s.masteryStatistics).Methods(http.MethodGet)
	api.HandleFunc("/statistics/categories/{id:[0-9]+}", s.categoryStatistics).Methods(http.MethodGet)
	api.HandleFunc("/statistics/daily/{id:[0-9]+}", s.dailyStatistics).Methods(http.MethodGet)
	api.HandleFunc("/statistics/global", s.globalStatistics).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/{id:[0-9]+}", s.dashboard).Methods(http.MethodGet)

	api.HandleFunc("/search", s.search).Methods(http.MethodGet)
	api.HandleFunc("/export", s.export).Methods(http.MethodGet)

	return r
}

// Handler returns the routes wrapped with CORS and access logging.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	var h http.Handler = s.accessLog(s.Router())
	if s.combinedLog {
		h = LogHandler(h)
	}
	return handlers.RecoveryHandler()(cors(h))
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}

// LogHandler wraps h with the combined access log format on stdout.
func LogHandler(h http.Handler) http.Handler {
	return handlers.CombinedLoggingHandler(os.Stdout, h)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
