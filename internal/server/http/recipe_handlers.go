package httpserver

import (
	"net/http"

	"github.com/and161185/recipebox/internal/convert"
)

const noRecipes = "No recipes available"

type recipeRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
}

type idRequest struct {
	ID string `json:"id"`
}

type authorRequest struct {
	Author string `json:"author"`
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req recipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.recipes.Create(r.Context(), u.ID, req.Title, req.Ingredients)
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToRecipe(rec))
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req recipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := convert.ParseID("id", req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.recipes.Update(r.Context(), id, u.ID, req.Title, req.Ingredients)
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToRecipe(rec))
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req idRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := convert.ParseID("id", req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.recipes.Delete(r.Context(), id, u.ID); err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Recipe deleted successfully"})
}

func (s *Server) userRecipes(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	author, err := convert.ParseID("author", req.Author)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.recipes.ListByAuthor(r.Context(), author)
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusOK, message{Message: noRecipes})
		return
	}
	writeJSON(w, http.StatusOK, convert.ToRecipes(list))
}

func (s *Server) rankRecipes(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.ranking.Rank(r.Context())
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	if len(ranked) == 0 {
		writeJSON(w, http.StatusOK, message{Message: noRecipes})
		return
	}
	writeJSON(w, http.StatusOK, convert.ToRanked(ranked))
}
