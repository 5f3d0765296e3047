// ABOUTME: Form decoding for the client view refresh call
// ABOUTME: Fields are read leniently; validation happens in the views service

package requests

import (
	"net/url"
	"strings"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/pkg/utils/parse"
)

// Form field names of the refresh call
const (
	FieldAction  = "action"
	FieldNonce   = "nonce"
	FieldType    = "type"
	FieldID      = "id"
	FieldURL     = "url"
	FieldCurrent = "current"
)

// ParseRefreshForm reads a RefreshRequest from form values. Missing or
// malformed numbers become 0 and negative numbers lose their sign.
func ParseRefreshForm(form url.Values) domain.RefreshRequest {
	return domain.RefreshRequest{
		Action:  strings.TrimSpace(form.Get(FieldAction)),
		Nonce:   strings.TrimSpace(form.Get(FieldNonce)),
		Type:    sanitizeKey(form.Get(FieldType)),
		ID:      parse.AbsInt(form.Get(FieldID)),
		URL:     strings.TrimSpace(form.Get(FieldURL)),
		Current: int64(parse.AbsInt(form.Get(FieldCurrent))),
	}
}

// sanitizeKey lowercases s and keeps only a-z, 0-9, dash and underscore
func sanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
