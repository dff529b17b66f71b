package utils

import (
	"testing"
)

func TestJwtRoundTrip(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	token, err := JwtGenerate(42, "operador1", "operador")
	if err != nil {
		t.Fatal(err)
	}

	validated, err := JwtValidate(token)
	if err != nil {
		t.Fatal(err)
	}
	if !validated.Valid {
		t.Fatal("token should be valid")
	}
	claim, ok := validated.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("claims have type %T", validated.Claims)
	}
	if claim.ID != 42 || claim.Username != "operador1" || claim.Role != "operador" {
		t.Errorf("claim = %+v", claim)
	}
}

func TestJwtValidateRejectsOtherSecret(t *testing.T) {
	t.Setenv("API_SECRET", "secret-a")
	token, err := JwtGenerate(1, "u", "r")
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("API_SECRET", "secret-b")
	validated, err := JwtValidate(token)
	if err == nil && validated.Valid {
		t.Error("token signed with another secret should not validate")
	}
}

func TestJwtValidateRejectsGarbage(t *testing.T) {
	if validated, err := JwtValidate("not-a-token"); err == nil && validated.Valid {
		t.Error("garbage should not validate")
	}
}
