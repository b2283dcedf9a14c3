// Package token decodes session tokens without verifying them. The gateway
// is the sole authority on token validity: it holds the signing key and
// re-checks every protected call. The decode here only extracts display and
// view-selection claims, so a forged token can change what the terminal
// shows but never what the gateway permits.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/coursedeck/coursedeck/internal/models"
)

// ErrMalformed is returned for any token that does not decode: missing
// payload segment, bad base64, bad JSON. Callers treat all three identically.
var ErrMalformed = errors.New("malformed token")

// Decode extracts claims from a compact session token. Only the payload
// segment is read: the header does not have to parse, extra segments are
// ignored and the signature is never checked. Issuer and expiry are not
// checked either, and Decode never panics on arbitrary input.
func Decode(raw string) (models.Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 || parts[1] == "" {
		return models.Claims{}, fmt.Errorf("%w: need header and payload segments", ErrMalformed)
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return models.Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var p struct {
		ID    any     `json:"id"`
		Sub   any     `json:"sub"`
		Name  string  `json:"name"`
		Email string  `json:"email"`
		Role  string  `json:"role"`
		Iat   float64 `json:"iat"`
		Exp   float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return models.Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims := models.Claims{
		ID:    stringClaim(p.ID),
		Name:  p.Name,
		Email: p.Email,
		Role:  models.Role(p.Role),
		Iat:   int64(p.Iat),
		Exp:   int64(p.Exp),
	}
	if claims.ID == "" {
		// Some gateway builds put the user ID in the standard subject claim.
		claims.ID = stringClaim(p.Sub)
	}
	return claims, nil
}

// decodeSegment tolerates every base64 variant gateways have emitted:
// raw-url first (the compact serialization default), then padded and
// standard forms.
func decodeSegment(seg string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	} {
		if b, err := enc.DecodeString(seg); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("payload is not base64")
}

// stringClaim renders a private claim value as a string. Gateways have been
// observed to serialize IDs as both strings and numbers.
func stringClaim(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return fmt.Sprintf("%.0f", s)
	default:
		return ""
	}
}
