package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/and161185/recipebox/internal/convert"
	"github.com/and161185/recipebox/internal/model"
)

type createReviewRequest struct {
	Recipe string          `json:"recipe"`
	Review string          `json:"review"`
	Rating json.RawMessage `json:"rating"`
}

// updateReviewRequest leaves absent fields nil so they are kept as stored.
type updateReviewRequest struct {
	ID     string          `json:"id"`
	Review *string         `json:"review"`
	Rating json.RawMessage `json:"rating"`
}

func hasValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// ratingInput parses the raw rating but leaves rejecting it to the review service.
func ratingInput(raw json.RawMessage) model.RatingInput {
	if !hasValue(raw) {
		return model.RatingInput{}
	}
	v, err := convert.ParseRating(raw)
	return model.RatingInput{Value: v, Set: err == nil, Err: err}
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recipeID, err := convert.ParseID("recipe", req.Recipe)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rev, err := s.reviews.Create(r.Context(), recipeID, u.ID, req.Review, ratingInput(req.Rating))
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToReview(rev))
}

func (s *Server) updateReview(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req updateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := convert.ParseID("id", req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	patch := model.ReviewPatch{Text: req.Review}
	if in := ratingInput(req.Rating); in.Err != nil {
		patch.RatingErr = in.Err
	} else if in.Set {
		patch.Rating = &in.Value
	}
	rev, err := s.reviews.Update(r.Context(), id, u.ID, patch)
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToReview(rev))
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
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
	if err := s.reviews.Delete(r.Context(), id, u.ID); err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Review deleted successfully"})
}
