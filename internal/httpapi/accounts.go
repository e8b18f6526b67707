package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamed0406/uptimemon/internal/domain"
	"github.com/hamed0406/uptimemon/internal/repo"
)

type accountPayload struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	TOSAgreement bool   `json:"tos_agreement"`
}

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var p accountPayload
	if err := decode(r, &p); err != nil {
		respondErr(w, http.StatusBadRequest, "bad payload")
		return
	}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.FirstName == "" || p.LastName == "" || len(p.Phone) != domain.PhoneLength ||
		p.Password == "" || !p.TOSAgreement {
		respondErr(w, http.StatusBadRequest, "missing required fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	acct := domain.Account{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Phone:          p.Phone,
		HashedPassword: string(hash),
		TOSAgreement:   true,
	}
	if err := s.Store.Create(r.Context(), repo.Accounts, acct.Phone, &acct); err != nil {
		if errors.Is(err, repo.ErrExists) {
			respondErr(w, http.StatusConflict, "account already exists")
			return
		}
		s.Logger.Warn("account_create_error", zap.Error(err))
		respondErr(w, http.StatusInternalServerError, "could not create account")
		return
	}

	acct.HashedPassword = ""
	respond(w, http.StatusOK, acct)
}

func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if len(phone) != domain.PhoneLength {
		respondErr(w, http.StatusBadRequest, "missing phone")
		return
	}
	if !s.authorized(r.Context(), r, phone) {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}
	var acct domain.Account
	if err := s.Store.Read(r.Context(), repo.Accounts, phone, &acct); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "account not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	acct.HashedPassword = ""
	respond(w, http.StatusOK, acct)
}

func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request) {
	var p accountPayload
	if err := decode(r, &p); err != nil || len(strings.TrimSpace(p.Phone)) != domain.PhoneLength {
		respondErr(w, http.StatusBadRequest, "bad payload")
		return
	}
	if p.FirstName == "" && p.LastName == "" && p.Password == "" {
		respondErr(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if !s.authorized(r.Context(), r, p.Phone) {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}

	var acct domain.Account
	if err := s.Store.Read(r.Context(), repo.Accounts, p.Phone, &acct); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "account not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	if p.FirstName != "" {
		acct.FirstName = strings.TrimSpace(p.FirstName)
	}
	if p.LastName != "" {
		acct.LastName = strings.TrimSpace(p.LastName)
	}
	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			respondErr(w, http.StatusInternalServerError, "could not hash password")
			return
		}
		acct.HashedPassword = string(hash)
	}
	if err := s.Store.Update(r.Context(), repo.Accounts, acct.Phone, &acct); err != nil {
		respondErr(w, http.StatusInternalServerError, "could not update account")
		return
	}
	acct.HashedPassword = ""
	respond(w, http.StatusOK, acct)
}

// handleAccountDelete removes the account and all checks it owns. Check
// deletion is best effort: a check that fails to delete is logged and
// left for the operator; the engine skips orphaned references anyway.
func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if len(phone) != domain.PhoneLength {
		respondErr(w, http.StatusBadRequest, "missing phone")
		return
	}
	if !s.authorized(r.Context(), r, phone) {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}

	var acct domain.Account
	if err := s.Store.Read(r.Context(), repo.Accounts, phone, &acct); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "account not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	for _, checkID := range acct.Checks {
		if err := s.Store.Delete(r.Context(), repo.Checks, checkID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			s.Logger.Warn("account_check_delete_error",
				zap.String("phone", phone), zap.String("check_id", checkID), zap.Error(err))
		}
	}
	if err := s.Store.Delete(r.Context(), repo.Accounts, phone); err != nil {
		respondErr(w, http.StatusInternalServerError, "could not delete account")
		return
	}
	respond(w, http.StatusOK, nil)
}
