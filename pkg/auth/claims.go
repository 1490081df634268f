package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/enums"
)

// Principal is the resolved caller identity: either a farmer (tenant root)
// or one of their employees. FarmerID is always the tenant; for farmer
// principals it equals ID.
type Principal struct {
	Kind     enums.PrincipalKind
	ID       uuid.UUID
	FarmerID uuid.UUID
}

// IsFarmer reports whether the principal is the tenant owner.
func (p Principal) IsFarmer() bool {
	return p.Kind == enums.PrincipalKindFarmer
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Principal Principal
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	Kind     enums.PrincipalKind `json:"kind"`
	FarmerID uuid.UUID           `json:"farmer_id"`
	jwt.RegisteredClaims
}

// ToPrincipal rebuilds the Principal from validated claims.
func (c *AccessTokenClaims) ToPrincipal() (Principal, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, err
	}
	return Principal{
		Kind:     c.Kind,
		ID:       id,
		FarmerID: c.FarmerID,
	}, nil
}
