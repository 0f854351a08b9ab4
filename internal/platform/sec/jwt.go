// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

// Package sec verifies operator identity tokens.
//
// # Architecture
//
// Token issuance lives in the central Castorie identity service. This
// service only holds the RSA public key, so a compromise here cannot mint
// valid tokens. Claims embed the operator ID and role directly, which lets
// the middleware reconstruct the operator context without a database call.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorClaims is the payload embedded inside an operator access token.
//
// Custom claim names are abbreviated to keep the JWT payload small.
type OperatorClaims struct {
	jwt.RegisteredClaims

	OperatorID string `json:"oid"`
	Username   string `json:"unm"`
	Role       string `json:"rol"`
}

// TokenVerifier validates RS256 operator tokens against the identity
// service's public key.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewTokenVerifier reads the RSA public key from the given PEM file.
func NewTokenVerifier(publicKeyPath, issuer string) (*TokenVerifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenVerifier{publicKey: publicKey, issuer: issuer}, nil
}

// VerifyToken parses and validates a serialized JWT and returns its claims.
func (v *TokenVerifier) VerifyToken(tokenStr string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method %q", t.Header["alg"])
		}
		return v.publicKey, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("sec: token verification failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("sec: token is invalid")
	}

	return claims, nil
}
