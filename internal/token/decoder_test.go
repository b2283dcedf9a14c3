package token

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/coursedeck/coursedeck/internal/models"
)

// signedToken builds a compact HS256-signed token the way the gateway does.
// The decoder never checks the signature, but round-trip tests should use
// realistic input.
func signedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	builder := jwt.NewBuilder().
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(24 * time.Hour))
	for k, v := range claims {
		builder = builder.Claim(k, v)
	}
	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("building token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("test-signing-key")))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return string(signed)
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		claims map[string]any
		want   models.Claims
	}{
		{
			name: "student claims",
			claims: map[string]any{
				"id":    "u-1042",
				"name":  "Amina Yusuf",
				"email": "amina@example.com",
				"role":  "student",
			},
			want: models.Claims{ID: "u-1042", Name: "Amina Yusuf", Email: "amina@example.com", Role: models.RoleStudent},
		},
		{
			name: "admin claims",
			claims: map[string]any{
				"id":    "u-1",
				"name":  "Site Admin",
				"email": "admin@example.com",
				"role":  "admin",
			},
			want: models.Claims{ID: "u-1", Name: "Site Admin", Email: "admin@example.com", Role: models.RoleAdmin},
		},
		{
			name: "numeric id falls back to string form",
			claims: map[string]any{
				"id":    42,
				"name":  "Numeric",
				"email": "n@example.com",
				"role":  "instructor",
			},
			want: models.Claims{ID: "42", Name: "Numeric", Email: "n@example.com", Role: models.RoleInstructor},
		},
		{
			name: "id from subject claim",
			claims: map[string]any{
				"sub":   "u-5510",
				"name":  "Sub Only",
				"email": "sub@example.com",
				"role":  "student",
			},
			want: models.Claims{ID: "u-5510", Name: "Sub Only", Email: "sub@example.com", Role: models.RoleStudent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := signedToken(t, tt.claims)
			got, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode() returned error: %v", err)
			}
			if got.ID != tt.want.ID {
				t.Errorf("Expected ID '%s', got '%s'", tt.want.ID, got.ID)
			}
			if got.Name != tt.want.Name {
				t.Errorf("Expected Name '%s', got '%s'", tt.want.Name, got.Name)
			}
			if got.Email != tt.want.Email {
				t.Errorf("Expected Email '%s', got '%s'", tt.want.Email, got.Email)
			}
			if got.Role != tt.want.Role {
				t.Errorf("Expected Role '%s', got '%s'", tt.want.Role, got.Role)
			}
			if got.Iat == 0 || got.Exp == 0 {
				t.Errorf("Expected iat/exp to be populated, got iat=%d exp=%d", got.Iat, got.Exp)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte(`this is not json`))

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "no dots", raw: "justonechunk"},
		{name: "one dot", raw: "a.b"},
		{name: "too many segments", raw: "a.b.c.d"},
		{name: "payload not base64", raw: header + ".!!!not-base64!!!.sig"},
		{name: "payload not JSON", raw: header + "." + notJSON + ".sig"},
		{name: "whitespace", raw: "   "},
		{name: "bare dots", raw: "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tt.raw)
			if err == nil {
				t.Fatal("Expected error for malformed token, got nil")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDecodeToleratesLooseFraming(t *testing.T) {
	t.Parallel()

	payloadJSON := []byte(`{"id":"u-8","name":"Lena Fischer","email":"lena@example.com","role":"student","iat":1700000000,"exp":1800000000}`)
	rawPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	paddedPayload := base64.URLEncoding.EncodeToString(payloadJSON)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	// Only the payload segment has to decode. Gateways behind some proxies
	// have shipped mangled headers, missing signatures and padded base64;
	// none of that should cost the user their session.
	tests := []struct {
		name string
		raw  string
	}{
		{name: "header is not base64", raw: "!!junk-header!!." + rawPayload + ".sig"},
		{name: "header decodes but is not JSON", raw: base64.RawURLEncoding.EncodeToString([]byte("plain text")) + "." + rawPayload + ".sig"},
		{name: "signature segment missing", raw: header + "." + rawPayload},
		{name: "payload uses padded base64", raw: header + "." + paddedPayload + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode() returned error: %v", err)
			}
			if claims.ID != "u-8" {
				t.Errorf("Expected ID 'u-8', got '%s'", claims.ID)
			}
			if claims.Name != "Lena Fischer" {
				t.Errorf("Expected Name 'Lena Fischer', got '%s'", claims.Name)
			}
			if claims.Role != models.RoleStudent {
				t.Errorf("Expected Role 'student', got '%s'", claims.Role)
			}
			if claims.Iat != 1700000000 || claims.Exp != 1800000000 {
				t.Errorf("Expected iat/exp from payload, got iat=%d exp=%d", claims.Iat, claims.Exp)
			}
		})
	}
}

func TestDecodeIgnoresExpiry(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewBuilder().
		Claim("id", "u-9").
		Claim("role", "student").
		IssuedAt(time.Now().Add(-48 * time.Hour)).
		Expiration(time.Now().Add(-24 * time.Hour)).
		Build()
	if err != nil {
		t.Fatalf("building token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("k")))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	// Expired tokens still decode; only the gateway enforces expiry.
	claims, err := Decode(string(signed))
	if err != nil {
		t.Fatalf("Decode() rejected expired token: %v", err)
	}
	if claims.ID != "u-9" {
		t.Errorf("Expected ID 'u-9', got '%s'", claims.ID)
	}
	if !claims.ExpiresAt().Before(time.Now()) {
		t.Error("Expected ExpiresAt in the past")
	}
}
