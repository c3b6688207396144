package models

import "strings"

// Translation is one meaning of a word with its part of speech (n, v, adj...).
type Translation struct {
	Translation string `json:"translation" db:"translation"`
	Type        string `json:"type" db:"word_type"`
}

// Phrase is an example phrase using a word.
type Phrase struct {
	Phrase      string `json:"phrase" db:"phrase"`
	Translation string `json:"translation" db:"translation"`
}

// Word represents a vocabulary word
type Word struct {
	ID           int64         `json:"word_id,omitempty" db:"word_id"`
	Word         string        `json:"word" db:"word"`
	Translations []Translation `json:"translations"`
	Phrases      []Phrase      `json:"phrases"`
	Difficulty   string        `json:"difficulty,omitempty" db:"difficulty"`
	ListID       int64         `json:"list_id,omitempty" db:"list_id"`
}

// PrimaryTranslation returns the first translation or an empty string.
func (w Word) PrimaryTranslation() string {
	if len(w.Translations) == 0 {
		return ""
	}
	return w.Translations[0].Translation
}

// Meaning joins every translation as "type. translation" pairs.
func (w Word) Meaning() string {
	parts := make([]string, 0, len(w.Translations))
	for _, t := range w.Translations {
		if t.Type != "" {
			parts = append(parts, t.Type+". "+t.Translation)
		} else {
			parts = append(parts, t.Translation)
		}
	}
	return strings.Join(parts, "; ")
}

// WordList is a named collection of words.
type WordList struct {
	ID          int64     `json:"list_id" db:"list_id"`
	Name        string    `json:"list_name" db:"list_name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatorID   int64     `json:"creator_id,omitempty" db:"creator_id"`
	CreateTime  Timestamp `json:"create_time" db:"create_time"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	Difficulty  string    `json:"difficulty,omitempty" db:"difficulty"`
	WordCount   int       `json:"word_count" db:"word_count"`
	Words       []Word    `json:"words,omitempty"`
}

// FavoriteWord links a user to a word they starred.
type FavoriteWord struct {
	ID      int64     `json:"fav_id" db:"fav_id"`
	UserID  int64     `json:"user_id" db:"user_id"`
	WordID  int64     `json:"word_id" db:"word_id"`
	FavTime Timestamp `json:"fav_time" db:"fav_time"`
	Word    *Word     `json:"word,omitempty"`
}

// FavoriteRequest is the body of POST /favorite/add.
type FavoriteRequest struct {
	UserID int64 `json:"user_id"`
	WordID int64 `json:"word_id"`
}

// StatusResponse is the generic {success, message} acknowledgement.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
