package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/uptimemon/internal/domain"
	"github.com/hamed0406/uptimemon/internal/repo"
)

// readToken pulls the auth token id out of the request headers.
func readToken(r *http.Request) string {
	if t := r.Header.Get("Token"); t != "" {
		return strings.TrimSpace(t)
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// tokenFor resolves the request's token header to a stored, unexpired
// token. ok is false when the header is missing, unknown or expired.
func (s *Server) tokenFor(r *http.Request) (domain.Token, bool) {
	id := readToken(r)
	if len(id) != domain.IDLength {
		return domain.Token{}, false
	}
	var tok domain.Token
	if err := s.Store.Read(r.Context(), repo.Tokens, id, &tok); err != nil {
		return domain.Token{}, false
	}
	if !tok.Valid(tok.Phone, time.Now().UTC()) {
		return domain.Token{}, false
	}
	return tok, true
}

// authorized reports whether the request carries an unexpired token that
// belongs to phone.
func (s *Server) authorized(ctx context.Context, r *http.Request, phone string) bool {
	id := readToken(r)
	if len(id) != domain.IDLength {
		return false
	}
	var tok domain.Token
	if err := s.Store.Read(ctx, repo.Tokens, id, &tok); err != nil {
		return false
	}
	return tok.Valid(phone, time.Now().UTC())
}
