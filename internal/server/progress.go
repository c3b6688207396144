package server

import (
	"errors"
	"net/http"

	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/srs"
	"github.com/example/wordbook/pkg/models"
)

func (s *Server) listWrongWords(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := s.wrongWords.ListByUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) addWrongWord(w http.ResponseWriter, r *http.Request) {
	var req models.WrongWordRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID <= 0 || req.WordID <= 0 {
		s.fail(w, r, badRequest("user_id and word_id are required"))
		return
	}
	if _, err := s.words.GetByID(r.Context(), req.WordID); err != nil {
		s.fail(w, r, err)
		return
	}
	record, err := s.wrongWords.Add(r.Context(), req, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) deleteWrongWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.wrongWords.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}

func (s *Server) masterWrongWord(w http.ResponseWriter, r *http.Request) {
	var req models.MasteredRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.wrongWords.DeleteByWord(r.Context(), req.UserID, req.WordID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true, Message: "word marked as mastered"})
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	words, err := s.favorites.ListWords(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req models.FavoriteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID <= 0 || req.WordID <= 0 {
		s.fail(w, r, badRequest("user_id and word_id are required"))
		return
	}
	err := s.favorites.Add(r.Context(), req.UserID, req.WordID, s.now())
	if errors.Is(err, database.ErrConflict) {
		writeJSON(w, http.StatusOK, models.StatusResponse{Success: false, Message: "word already in favorites"})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	wordID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.favorites.Remove(r.Context(), userID, wordID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	schedules, err := s.reviews.ListByUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

// scheduleFromRequest fills the fields a client may omit: a missing date
// means due now and a missing strength means the default easiness.
func (s *Server) scheduleFromRequest(req models.ReviewScheduleRequest) models.ReviewSchedule {
	rs := s.sm2.Initial(req.UserID, req.WordID, s.now())
	if !req.ReviewDate.IsZero() {
		rs.ReviewDate = req.ReviewDate
	}
	if req.MemoryStrength > 0 {
		rs.MemoryStrength = req.MemoryStrength
	}
	rs.RepeatCount = req.RepeatCount
	return rs
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewScheduleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID <= 0 || req.WordID <= 0 {
		s.fail(w, r, badRequest("user_id and word_id are required"))
		return
	}
	rs := s.scheduleFromRequest(req)
	if err := s.reviews.Save(r.Context(), &rs); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rs)
}

func (s *Server) updateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	current, err := s.reviews.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req models.ReviewScheduleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.UserID, req.WordID = current.UserID, current.WordID
	rs := s.scheduleFromRequest(req)
	rs.ID = id
	rs.IntervalDays = current.IntervalDays
	if err := s.reviews.Update(r.Context(), &rs); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) gradeReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var grade models.ReviewGrade
	if err := decode(r, &grade); err != nil {
		s.fail(w, r, err)
		return
	}
	quality := srs.Quality(grade.Quality)
	if !quality.Valid() {
		s.fail(w, r, badRequest("quality must be between 0 and 5"))
		return
	}
	rs, err := s.reviews.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.sm2.Grade(rs, quality, s.now()); err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	if err := s.reviews.Update(r.Context(), rs); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.UserID <= 0 {
		s.fail(w, r, badRequest("user_id is required"))
		return
	}
	c := &models.CheckInLog{
		UserID:        req.UserID,
		CheckInDate:   s.now().Format(models.DateLayout),
		WordCount:     req.WordCount,
		StudyDuration: req.StudyDuration,
		AccuracyRate:  req.AccuracyRate,
	}
	saved, err := s.checkIns.Create(r.Context(), c)
	if errors.Is(err, database.ErrConflict) {
		writeJSON(w, http.StatusOK, models.CheckInResponse{
			Success: true, Message: "already checked in today", AlreadyCheckedIn: true, CheckIn: saved,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.CheckInResponse{Success: true, Message: "checked in", CheckIn: saved})
}

func (s *Server) listCheckIns(w http.ResponseWriter, r *http.Request) {
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
	logs, err := s.checkIns.ListByUser(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) checkInStats(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.stats.CheckInStats(r.Context(), userID, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
