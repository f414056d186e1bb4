package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/client/wallet"
	"github.com/mazury/mazury-client/internal/common"
	"github.com/mazury/mazury-client/internal/devserver/auth"
	"github.com/mazury/mazury-client/internal/devserver/profiles"
)

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps a repository error to a response.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// --- GET /health ---

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "mazury-devserver"})
}

// --- POST /auth/siwe/verify ---

type siweVerifyRequest struct {
	Message   string `json:"message"`
	User      string `json:"user"`
	Signature string `json:"signature"`
}

// useNonce records nonce and reports whether it was fresh.
func (s *Server) useNonce(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.nonces[nonce]; seen {
		return false
	}
	s.nonces[nonce] = struct{}{}
	return true
}

func (s *Server) verifySIWE(w http.ResponseWriter, r *http.Request) {
	var req siweVerifyRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := wallet.ParseSIWEMessage(req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.EqualFold(msg.Address, req.User) {
		writeError(w, http.StatusUnauthorized, "message address does not match user")
		return
	}
	if s.siweDomain != "" && msg.Domain != s.siweDomain {
		writeError(w, http.StatusUnauthorized, "message issued for another domain")
		return
	}
	if err := wallet.Verify(req.User, []byte(req.Message), req.Signature); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}
	if msg.Nonce == "" || !s.useNonce(msg.Nonce) {
		writeError(w, http.StatusUnauthorized, "nonce already used")
		return
	}

	if _, created, err := s.profiles.Ensure(r.Context(), req.User); err != nil {
		s.writeFailure(w, r, err)
		return
	} else if created {
		s.log.Info(r.Context(), "profile created", "address", req.User)
	}

	access, refresh, err := s.issuer.Pair(req.User)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Tokens{Access: access, Refresh: refresh})
}

// --- POST /auth/refresh ---

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil || req.Refresh == "" {
		writeError(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	addr, err := s.issuer.Verify(req.Refresh, auth.KindRefresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	access, err := s.issuer.Access(addr)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Access: access})
}

// --- GET /profile/{address} ---

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- PATCH /profile/{address} ---

// updateProfile replaces the profile with the request body. The body must be
// signed by the profile's wallet and the access token must belong to it.
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if !strings.EqualFold(address, addressFrom(r.Context())) {
		writeError(w, http.StatusForbidden, "token does not own this profile")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := wallet.Verify(address, body, r.Header.Get(common.SignatureHeaderName)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var p models.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile")
		return
	}

	cur, err := s.profiles.Get(r.Context(), address)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	p.Address = cur.Address

	for _, f := range []struct{ field, value string }{
		{profiles.FieldUsername, p.Username},
		{profiles.FieldEmail, p.Email},
	} {
		if f.value == "" {
			continue
		}
		taken, err := s.profiles.Taken(r.Context(), f.field, f.value, p.Address)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		if taken {
			writeError(w, http.StatusConflict, f.field+" is already taken")
			return
		}
	}

	if err := s.profiles.Put(r.Context(), p); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.log.Info(r.Context(), "profile updated", "address", p.Address, "onboarded", p.Onboarded)
	writeJSON(w, http.StatusOK, p)
}

// --- GET /validate/{field}?value= ---

type validateResponse struct {
	Valid bool `json:"valid"`
}

// validate reports whether value is free for field. A valid access token,
// when present, excludes the caller's own profile from the check.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	value := strings.TrimSpace(r.URL.Query().Get("value"))
	if value == "" {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	var self string
	if token := bearerToken(r); token != "" {
		self, _ = s.issuer.Verify(token, auth.KindAccess)
	}

	taken, err := s.profiles.Taken(r.Context(), field, value, self)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: !taken})
}
