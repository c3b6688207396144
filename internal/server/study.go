package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/example/wordbook/internal/quiz"
	"github.com/example/wordbook/pkg/models"
)

const (
	defaultStudyLogLimit = 7
	defaultQuestionCount = 10
	maxQuestionCount     = 100
	defaultTestType      = "vocabulary"
)

func (s *Server) logStudy(w http.ResponseWriter, r *http.Request) {
	var req models.StudyLogRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID <= 0 || req.WordID <= 0 {
		s.fail(w, r, badRequest("user_id and word_id are required"))
		return
	}
	if !req.Status.Valid() {
		s.fail(w, r, badRequest("unknown status %q", req.Status))
		return
	}
	log := models.StudyLog{
		UserID:       req.UserID,
		WordID:       req.WordID,
		Status:       req.Status,
		AccuracyRate: req.AccuracyRate,
		StudyTime:    models.NewTimestamp(s.now()),
	}
	if err := s.studyLogs.Create(r.Context(), &log); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.studyLogsTotal.WithLabelValues(string(log.Status)).Inc()
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) listStudyLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultStudyLogLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.studyLogs.ListByUser(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) testQuestions(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultQuestionCount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if count <= 0 || count > maxQuestionCount {
		s.fail(w, r, badRequest("count must be between 1 and %d", maxQuestionCount))
		return
	}
	words, err := s.words.ListByDifficulty(r.Context(), r.URL.Query().Get("difficulty"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.rndMu.Lock()
	questions := quiz.Generate(words, count, s.rnd)
	s.rndMu.Unlock()

	if questions == nil {
		questions = []models.TestQuestion{}
	}
	writeJSON(w, http.StatusOK, questions)
}

// submitTest grades the answers itself, records one study log per question
// and adds every miss to the error book.
func (s *Server) submitTest(w http.ResponseWriter, r *http.Request) {
	var sub models.TestSubmission
	if err := decode(r, &sub); err != nil {
		s.fail(w, r, err)
		return
	}
	if sub.UserID <= 0 {
		s.fail(w, r, badRequest("user_id is required"))
		return
	}
	if len(sub.Questions) == 0 {
		s.fail(w, r, badRequest("questions are required"))
		return
	}

	ctx := r.Context()
	now := s.now()
	correct, score := quiz.Grade(sub.Questions, sub.Answers)
	if correct != sub.CorrectAnswers && sub.TotalQuestions > 0 {
		s.logger.Info("client score differs from server grading",
			zap.Int64("user_id", sub.UserID),
			zap.Int("client", sub.CorrectAnswers),
			zap.Int("server", correct))
	}

	for i, q := range sub.Questions {
		answer := ""
		if i < len(sub.Answers) {
			answer = sub.Answers[i]
		}
		ok := quiz.IsCorrect(q, answer)
		accuracy := 0.0
		status := models.StatusUnknown
		if ok {
			accuracy, status = 100, models.StatusKnown
		}
		log := models.StudyLog{
			UserID:       sub.UserID,
			WordID:       q.ID,
			Status:       status,
			AccuracyRate: &accuracy,
			StudyTime:    models.NewTimestamp(now),
		}
		if err := s.studyLogs.Create(ctx, &log); err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.studyLogsTotal.WithLabelValues(string(status)).Inc()
		if ok {
			continue
		}
		_, err := s.wrongWords.Add(ctx, models.WrongWordRequest{
			UserID:        sub.UserID,
			WordID:        q.ID,
			UserAnswer:    answer,
			CorrectAnswer: q.Answer,
			ErrorType:     models.ErrorTypeMeaning,
		}, now)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	testType := sub.TestType
	if testType == "" {
		testType = defaultTestType
	}
	result := models.TestResult{
		UserID:         sub.UserID,
		Score:          score,
		TotalQuestions: len(sub.Questions),
		CorrectAnswers: correct,
		TestDate:       models.NewTimestamp(now),
		TestType:       testType,
	}
	if err := s.tests.Create(ctx, &result); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.testsSubmitted.Inc()
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) testHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	results, err := s.tests.ListByUser(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
