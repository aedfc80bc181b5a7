// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec signs and verifies session tokens and hashes passphrases.

A token is an RS256 JWT naming one reading session and its [Role]. The API
server routes each request to the reader of that session without touching
storage, so revoking a token means waiting for it to expire.
*/
package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	SessionID string `json:"sid"`
	Role      string `json:"rol"`
}

// TokenService issues and verifies session tokens.
type TokenService struct {
	signingKey *rsa.PrivateKey
	verifyKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService loads a PEM key pair, typically JWT_PRIVATE_KEY_PATH and
// JWT_PUBLIC_KEY_PATH.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privatePEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: reading %s: %w", privateKeyPath, err)
	}
	signingKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("sec: parsing %s: %w", privateKeyPath, err)
	}

	publicPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: reading %s: %w", publicKeyPath, err)
	}
	verifyKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: parsing %s: %w", publicKeyPath, err)
	}

	return &TokenService{signingKey: signingKey, verifyKey: verifyKey, issuer: issuer}, nil
}

// NewEphemeralTokenService generates a key pair in memory. Its tokens die with the process.
func NewEphemeralTokenService(issuer string) (*TokenService, error) {
	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("sec: generating signing key: %w", err)
	}
	return &TokenService{signingKey: signingKey, verifyKey: &signingKey.PublicKey, issuer: issuer}, nil
}

// IssueToken signs a token for sessionID that expires after ttl.
func (service *TokenService) IssueToken(sessionID string, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SessionID: sessionID,
		Role:      string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature, issuer and expiry of a token.
func (service *TokenService) VerifyToken(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return service.verifyKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("sec: verifying token: %w", err)
	}
	if claims.SessionID == "" {
		return nil, errors.New("sec: token names no session")
	}
	return claims, nil
}
