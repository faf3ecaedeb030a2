package model

type TokenClaims struct {
	UserID string
	Type   string
	Exp    int64
}
