// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassphrase returns the bcrypt hash stored with a protected session or set as
// OPERATOR_PASSWORD_HASH.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: hashing passphrase: %w", err)
	}
	return string(hash), nil
}

// MatchPassphrase reports whether passphrase produced hash. A malformed hash never matches.
func MatchPassphrase(passphrase, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)) == nil
}
