package http

import (
	"net/http"
	"strconv"

	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
)

func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 0
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)

	return page, limit, nil
}

// ExtractClientID reads the caller identity propagated by the gateway.
func ExtractClientID(r *http.Request) (string, error) {
	clientID := r.Header.Get("X-Client-ID")
	if clientID == "" {
		return "", apperrors.InvalidInput("missing X-Client-ID header")
	}
	return clientID, nil
}
