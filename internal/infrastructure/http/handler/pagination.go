package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"
)

// generatePageToken creates a pagination token from an offset value.
// Returns nil if there are no more pages.
func generatePageToken(offset int, hasMore bool) *string {
	if !hasMore {
		return nil
	}

	token := base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
	return &token
}

// parsePageToken decodes a pagination token to get the offset.
// Returns 0 if the token is empty, invalid, or negative.
func parsePageToken(token string) int {
	if token == "" {
		return 0
	}

	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}

	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0
	}

	return offset
}

// getPageSize parses the page_size query parameter, or 0 if absent or
// invalid. The service layer applies configured defaults and limits.
func getPageSize(r *http.Request) int {
	raw := r.URL.Query().Get("page_size")
	if raw == "" {
		return 0
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 0 {
		return 0
	}
	return size
}
