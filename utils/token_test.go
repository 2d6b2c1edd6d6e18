package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(3, "分店", "台中店", "basic")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token should be valid right after issue")
	}

	claim, ok := parsed.Claims.(*JwtStoreClaim)
	if !ok {
		t.Fatalf("claims have unexpected type %T", parsed.Claims)
	}
	if claim.StoreId != 3 || claim.StoreLevel != "分店" || claim.StoreName != "台中店" || claim.Permission != "basic" {
		t.Fatalf("claim round trip mismatch: %+v", claim)
	}
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
