package httpapi

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hamed0406/uptimemon/internal/domain"
	"github.com/hamed0406/uptimemon/internal/repo"
)

// tokenTTL is how long a freshly created or extended token stays valid.
const tokenTTL = time.Hour

type tokenPayload struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	ID       string `json:"id"`
	Extend   bool   `json:"extend"`
}

func (s *Server) handleTokenCreate(w http.ResponseWriter, r *http.Request) {
	var p tokenPayload
	if err := decode(r, &p); err != nil || len(p.Phone) != domain.PhoneLength || p.Password == "" {
		respondErr(w, http.StatusBadRequest, "missing phone or password")
		return
	}

	var acct domain.Account
	if err := s.Store.Read(r.Context(), repo.Accounts, p.Phone, &acct); err != nil {
		// Not found and read errors both surface as a credential failure
		// so the endpoint cannot be used to enumerate accounts.
		respondErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.HashedPassword), []byte(p.Password)) != nil {
		respondErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok := domain.Token{
		ID:      domain.NewID(domain.IDLength),
		Phone:   p.Phone,
		Expires: time.Now().UTC().Add(tokenTTL),
	}
	if err := s.Store.Create(r.Context(), repo.Tokens, tok.ID, &tok); err != nil {
		respondErr(w, http.StatusInternalServerError, "could not create token")
		return
	}
	respond(w, http.StatusOK, tok)
}

func (s *Server) handleTokenGet(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if len(id) != domain.IDLength {
		respondErr(w, http.StatusBadRequest, "missing id")
		return
	}
	var tok domain.Token
	if err := s.Store.Read(r.Context(), repo.Tokens, id, &tok); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "token not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	respond(w, http.StatusOK, tok)
}

// handleTokenExtend pushes an unexpired token's expiry another hour out.
func (s *Server) handleTokenExtend(w http.ResponseWriter, r *http.Request) {
	var p tokenPayload
	if err := decode(r, &p); err != nil || len(p.ID) != domain.IDLength || !p.Extend {
		respondErr(w, http.StatusBadRequest, "missing id or extend flag")
		return
	}
	var tok domain.Token
	if err := s.Store.Read(r.Context(), repo.Tokens, p.ID, &tok); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "token not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	if !time.Now().UTC().Before(tok.Expires) {
		respondErr(w, http.StatusBadRequest, "token already expired")
		return
	}
	tok.Expires = time.Now().UTC().Add(tokenTTL)
	if err := s.Store.Update(r.Context(), repo.Tokens, tok.ID, &tok); err != nil {
		respondErr(w, http.StatusInternalServerError, "could not update token")
		return
	}
	respond(w, http.StatusOK, tok)
}

func (s *Server) handleTokenDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if len(id) != domain.IDLength {
		respondErr(w, http.StatusBadRequest, "missing id")
		return
	}
	if err := s.Store.Delete(r.Context(), repo.Tokens, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "token not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "could not delete token")
		return
	}
	respond(w, http.StatusOK, nil)
}
