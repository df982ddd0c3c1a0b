package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stafma/stafma-backend-go/internal/handler/http/response"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

// principal is the caller named by the access token.
type principal struct {
	UserID    string
	CompanyID string
	IsAdmin   bool
}

// principalFromContext reads the verified claims. AuthRequired has already
// checked that company_id is present.
func principalFromContext(r *http.Request) principal {
	_, claims, _ := jwtauth.FromContext(r.Context())
	var p principal
	p.UserID, _ = claims["user_id"].(string)
	p.CompanyID, _ = claims["company_id"].(string)
	p.IsAdmin, _ = claims["is_admin"].(bool)
	return p
}

// reviewer returns the user id to record as approver, or nil when the
// token carries none.
func (p principal) reviewer() *string {
	if p.UserID == "" {
		return nil
	}
	id := p.UserID
	return &id
}

func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// optionalIntQueryParam returns nil when key is absent and false when it is malformed.
func optionalIntQueryParam(r *http.Request, key string) (*int, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, true
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return nil, false
	}
	return &i, true
}

func optionalStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// uuidParam reads a UUID path parameter. A malformed id is answered with
// notFound, as no such resource can exist.
func uuidParam(w http.ResponseWriter, r *http.Request, name string, notFound error) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}
