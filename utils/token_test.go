package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate("admin", "admin")
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := JwtValidate(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("validate: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("claims type %T", parsed.Claims)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("claims %+v", claims)
	}
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if err := ComparePassword(hash, "s3cret"); err != nil {
		t.Fatalf("matching password rejected: %v", err)
	}
	if err := ComparePassword(hash, "other"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
