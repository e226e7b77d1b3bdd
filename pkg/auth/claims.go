package auth

import "github.com/golang-jwt/jwt/v5"

// OperatorRole is the only role the POS issues; kept as a claim so future
// back-office roles slot in without a token format change.
const OperatorRole = "operator"

// AccessTokenClaims represents the typed JWT issued to terminals.
type AccessTokenClaims struct {
	Operator string `json:"operator"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
