package httpserver

import (
	"net/http"

	"github.com/and161185/recipebox/internal/convert"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	JWT string `json:"jwt"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToUser(u))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tok, _, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, s.log, err)
		return
	}
	setTokenCookie(w, r, tok.Value, tok.ExpiresAt, s.cookie)
	writeJSON(w, http.StatusOK, loginResponse{JWT: tok.Value})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	writeJSON(w, http.StatusOK, convert.ToUser(u))
}

// logout only clears the cookie; issued tokens stay valid until they expire.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(TokenCookie); err != nil {
		writeJSON(w, http.StatusOK, message{Message: "Already logged out!"})
		return
	}
	clearTokenCookie(w, r, s.cookie)
	writeJSON(w, http.StatusOK, message{Message: "success"})
}
