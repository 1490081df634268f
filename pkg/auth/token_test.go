package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/config"
	"github.com/teafarmpro/teafarm-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "teafarm-test",
		ExpirationMinutes: 15,
	}
}

func farmerPayload() AccessTokenPayload {
	id := uuid.New()
	return AccessTokenPayload{
		Principal: Principal{
			Kind:     enums.PrincipalKindFarmer,
			ID:       id,
			FarmerID: id,
		},
		JTI: uuid.NewString(),
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	payload := farmerPayload()

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	principal, err := claims.ToPrincipal()
	if err != nil {
		t.Fatalf("to principal: %v", err)
	}
	if principal != payload.Principal {
		t.Fatalf("expected %+v, got %+v", payload.Principal, principal)
	}
	if claims.ID != payload.JTI {
		t.Fatalf("expected jti %s, got %s", payload.JTI, claims.ID)
	}
}

func TestMintRejectsInvalidPayload(t *testing.T) {
	cfg := testJWTConfig()

	payload := farmerPayload()
	payload.Principal.Kind = "robot"
	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected error for invalid kind")
	}

	payload = farmerPayload()
	payload.Principal.FarmerID = uuid.Nil
	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected error for missing farmer id")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), farmerPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("allow-expired parse: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to survive expired parse")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), farmerPayload())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestEmployeePrincipalKeepsTenant(t *testing.T) {
	cfg := testJWTConfig()
	farmerID := uuid.New()
	payload := AccessTokenPayload{
		Principal: Principal{
			Kind:     enums.PrincipalKindEmployee,
			ID:       uuid.New(),
			FarmerID: farmerID,
		},
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	principal, err := claims.ToPrincipal()
	if err != nil {
		t.Fatalf("to principal: %v", err)
	}
	if principal.IsFarmer() {
		t.Fatal("employee principal must not be farmer")
	}
	if principal.FarmerID != farmerID {
		t.Fatalf("expected tenant %s, got %s", farmerID, principal.FarmerID)
	}
}
