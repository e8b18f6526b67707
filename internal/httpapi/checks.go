package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimemon/internal/domain"
	"github.com/hamed0406/uptimemon/internal/repo"
)

type checkPayload struct {
	ID             string `json:"id"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"success_codes"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// handleCheckCreate registers a new check for the token's account, up to
// the per-account cap. The engine only probes records that pass the same
// validation applied here, so a record written through this handler is
// always eligible for the next sweep.
func (s *Server) handleCheckCreate(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := decode(r, &p); err != nil {
		respondErr(w, http.StatusBadRequest, "bad payload")
		return
	}

	// The owner comes from the token itself, not the payload.
	tok, ok := s.tokenFor(r)
	if !ok {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}

	var acct domain.Account
	if err := s.Store.Read(r.Context(), repo.Accounts, tok.Phone, &acct); err != nil {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}
	if len(acct.Checks) >= s.MaxChecks {
		respondErr(w, http.StatusBadRequest, "account already has the maximum number of checks")
		return
	}

	chk := domain.Check{
		ID:             domain.NewID(domain.IDLength),
		Phone:          acct.Phone,
		Protocol:       strings.ToLower(strings.TrimSpace(p.Protocol)),
		URL:            strings.TrimSpace(p.URL),
		Method:         strings.ToLower(strings.TrimSpace(p.Method)),
		SuccessCodes:   p.SuccessCodes,
		TimeoutSeconds: p.TimeoutSeconds,
	}
	if err := domain.Normalize(&chk); err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Store.Create(r.Context(), repo.Checks, chk.ID, &chk); err != nil {
		s.Logger.Warn("check_create_error", zap.Error(err))
		respondErr(w, http.StatusInternalServerError, "could not create check")
		return
	}
	acct.Checks = append(acct.Checks, chk.ID)
	if err := s.Store.Update(r.Context(), repo.Accounts, acct.Phone, &acct); err != nil {
		// Roll the orphaned check record back so the cap stays accurate.
		_ = s.Store.Delete(r.Context(), repo.Checks, chk.ID)
		respondErr(w, http.StatusInternalServerError, "could not update account")
		return
	}
	respond(w, http.StatusOK, chk)
}

func (s *Server) handleCheckGet(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if len(id) != domain.IDLength {
		respondErr(w, http.StatusBadRequest, "missing id")
		return
	}
	var chk domain.Check
	if err := s.Store.Read(r.Context(), repo.Checks, id, &chk); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "check not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	if !s.authorized(r.Context(), r, chk.Phone) {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}
	respond(w, http.StatusOK, chk)
}

// handleCheckUpdate edits the probe settings of an existing check. State
// and last_checked belong to the engine and cannot be set here.
func (s *Server) handleCheckUpdate(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := decode(r, &p); err != nil || len(p.ID) != domain.IDLength {
		respondErr(w, http.StatusBadRequest, "bad payload")
		return
	}
	if p.Protocol == "" && p.URL == "" && p.Method == "" &&
		len(p.SuccessCodes) == 0 && p.TimeoutSeconds == 0 {
		respondErr(w, http.StatusBadRequest, "nothing to update")
		return
	}

	var chk domain.Check
	if err := s.Store.Read(r.Context(), repo.Checks, p.ID, &chk); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "check not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	if !s.authorized(r.Context(), r, chk.Phone) {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}

	if p.Protocol != "" {
		chk.Protocol = strings.ToLower(strings.TrimSpace(p.Protocol))
	}
	if p.URL != "" {
		chk.URL = strings.TrimSpace(p.URL)
	}
	if p.Method != "" {
		chk.Method = strings.ToLower(strings.TrimSpace(p.Method))
	}
	if len(p.SuccessCodes) > 0 {
		chk.SuccessCodes = p.SuccessCodes
	}
	if p.TimeoutSeconds > 0 {
		chk.TimeoutSeconds = p.TimeoutSeconds
	}
	if err := domain.Normalize(&chk); err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Store.Update(r.Context(), repo.Checks, chk.ID, &chk); err != nil {
		respondErr(w, http.StatusInternalServerError, "could not update check")
		return
	}
	respond(w, http.StatusOK, chk)
}

func (s *Server) handleCheckDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if len(id) != domain.IDLength {
		respondErr(w, http.StatusBadRequest, "missing id")
		return
	}
	var chk domain.Check
	if err := s.Store.Read(r.Context(), repo.Checks, id, &chk); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondErr(w, http.StatusNotFound, "check not found")
			return
		}
		respondErr(w, http.StatusInternalServerError, "read error")
		return
	}
	if !s.authorized(r.Context(), r, chk.Phone) {
		respondErr(w, http.StatusForbidden, "missing or invalid token")
		return
	}

	if err := s.Store.Delete(r.Context(), repo.Checks, id); err != nil && !errors.Is(err, repo.ErrNotFound) {
		respondErr(w, http.StatusInternalServerError, "could not delete check")
		return
	}

	var acct domain.Account
	if err := s.Store.Read(r.Context(), repo.Accounts, chk.Phone, &acct); err == nil {
		kept := acct.Checks[:0]
		for _, cid := range acct.Checks {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		acct.Checks = kept
		if err := s.Store.Update(r.Context(), repo.Accounts, acct.Phone, &acct); err != nil {
			s.Logger.Warn("check_unlink_error",
				zap.String("phone", chk.Phone), zap.String("check_id", id), zap.Error(err))
		}
	}
	respond(w, http.StatusOK, nil)
}
