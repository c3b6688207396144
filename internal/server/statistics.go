package server

import (
	"net/http"

	"github.com/example/wordbook/pkg/models"
)

const (
	masteryWordLimit = 20
	searchLimit      = 20
)

func (s *Server) masteryStatistics(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", masteryWordLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := s.stats.Mastery(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) categoryStatistics(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats, err := s.stats.Categories(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) dailyStatistics(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	days, err := queryInt(r, "days", 7)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	daily, err := s.stats.Daily(r.Context(), userID, days, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

func (s *Server) globalStatistics(w http.ResponseWriter, r *http.Request) {
	g, err := s.stats.Global(r.Context(), s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.stats.Dashboard(r.Context(), userID, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		s.fail(w, r, badRequest("query is required"))
		return
	}
	kind := q.Get("type")
	if kind == "" {
		kind = "all"
	}

	ctx := r.Context()
	res := models.SearchResults{Words: []models.Word{}, Lists: []models.WordList{}, Users: []models.User{}}
	var err error
	if kind == "all" || kind == "words" {
		if res.Words, err = s.words.Search(ctx, query, searchLimit); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if kind == "all" || kind == "lists" {
		if res.Lists, err = s.lists.Search(ctx, query, searchLimit); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if kind == "all" || kind == "users" {
		if res.Users, err = s.users.Search(ctx, query, searchLimit); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// export dumps a user's data. type selects words (lists, favorites, error
// book), progress (study logs, reviews, check-ins), tests, or all.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "all"
	}
	switch kind {
	case "all", "words", "progress", "tests":
	default:
		s.fail(w, r, badRequest("unknown export type %q", kind))
		return
	}

	ctx := r.Context()
	var data models.ExportData
	if data.User, err = s.users.GetByID(ctx, userID); err != nil {
		s.fail(w, r, err)
		return
	}
	if kind == "all" || kind == "words" {
		if data.WordLists, err = s.lists.List(ctx, userID); err != nil {
			s.fail(w, r, err)
			return
		}
		if data.Favorites, err = s.favorites.ListWords(ctx, userID); err != nil {
			s.fail(w, r, err)
			return
		}
		if data.WrongWords, err = s.wrongWords.ListByUser(ctx, userID); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if kind == "all" || kind == "progress" {
		if data.StudyLogs, err = s.studyLogs.ListByUser(ctx, userID, 0); err != nil {
			s.fail(w, r, err)
			return
		}
		if data.Reviews, err = s.reviews.ListByUser(ctx, userID); err != nil {
			s.fail(w, r, err)
			return
		}
		if data.CheckIns, err = s.checkIns.ListByUser(ctx, userID, 0); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if kind == "all" || kind == "tests" {
		if data.TestResults, err = s.tests.ListByUser(ctx, userID, 0); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, data)
}
