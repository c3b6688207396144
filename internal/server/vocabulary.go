package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/example/wordbook/pkg/models"
)

func (s *Server) listWords(w http.ResponseWriter, r *http.Request) {
	listID, err := queryInt(r, "list_id", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	words, err := s.words.List(r.Context(), int64(listID), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (s *Server) getWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	word, err := s.words.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func validateWord(word *models.Word) error {
	word.Word = strings.TrimSpace(word.Word)
	if word.Word == "" {
		return badRequest("word is required")
	}
	if len(word.Translations) == 0 {
		return badRequest("at least one translation is required")
	}
	return nil
}

func (s *Server) createWord(w http.ResponseWriter, r *http.Request) {
	var word models.Word
	if err := decode(r, &word); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateWord(&word); err != nil {
		s.fail(w, r, err)
		return
	}
	if word.ListID == 0 {
		s.fail(w, r, badRequest("list_id is required"))
		return
	}
	if _, err := s.lists.GetByID(r.Context(), word.ListID); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.words.Create(r.Context(), &word); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, word)
}

func (s *Server) updateWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var word models.Word
	if err := decode(r, &word); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateWord(&word); err != nil {
		s.fail(w, r, err)
		return
	}
	word.ID = id
	if err := s.words.Update(r.Context(), &word); err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.words.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.words.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}

func (s *Server) listWordLists(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "user_id", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lists, err := s.lists.List(r.Context(), int64(userID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) getWordList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.lists.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createWordList(w http.ResponseWriter, r *http.Request) {
	var list models.WordList
	if err := decode(r, &list); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(list.Name) == "" {
		s.fail(w, r, badRequest("list_name is required"))
		return
	}
	list.ID = 0
	list.CreateTime = models.NewTimestamp(s.now().Truncate(time.Second))
	if err := s.lists.Create(r.Context(), &list); err != nil {
		s.fail(w, r, err)
		return
	}
	list.Words = nil
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) updateWordList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	current, err := s.lists.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var patch models.WordList
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	if patch.Name != "" {
		current.Name = patch.Name
	}
	if patch.Description != "" {
		current.Description = patch.Description
	}
	if patch.Difficulty != "" {
		current.Difficulty = patch.Difficulty
	}
	current.IsPublic = patch.IsPublic
	if err := s.lists.Update(r.Context(), current); err != nil {
		s.fail(w, r, err)
		return
	}
	current.Words = nil
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) deleteWordList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.lists.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{Success: true})
}
