package handler

import (
	"net/http"
	"strconv"

	"github.com/vzlrn/cardcasebot/internal/domain"
)

// userFromQuery reconstructs the optional chat identity from query
// parameters on GET endpoints. A missing or unparsable user_id degrades to
// the guest identity rather than failing the request.
func userFromQuery(r *http.Request) *domain.ChatUser {
	q := r.URL.Query()
	raw := q.Get("user_id")
	if raw == "" {
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}

	return &domain.ChatUser{
		ID:        id,
		FirstName: q.Get("first_name"),
		Username:  q.Get("username"),
	}
}
