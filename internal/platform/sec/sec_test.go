// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/platform/sec"
)

/*
TestPasswordHash verifies bcrypt round trips and mismatches.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassphrase("still waters")
	require.NoError(t, err)

	assert.True(t, sec.MatchPassphrase("still waters", hash))
	assert.False(t, sec.MatchPassphrase("green pastures", hash))
}

/*
TestEphemeralTokenService issues and verifies a session token.
*/
func TestEphemeralTokenService(t *testing.T) {
	service, err := sec.NewEphemeralTokenService("lectio.test")
	require.NoError(t, err)

	token, err := service.IssueToken("session-1", sec.RoleReader, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, string(sec.RoleReader), claims.Role)

	// A token signed by another key is rejected
	other, err := sec.NewEphemeralTokenService("lectio.test")
	require.NoError(t, err)
	_, err = other.VerifyToken(token)
	assert.Error(t, err)

	// So is an expired one
	expired, err := service.IssueToken("session-1", sec.RoleReader, -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)
}

/*
TestRole_AtLeast checks the role hierarchy.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleOperator.AtLeast(sec.RoleReader))
	assert.True(t, sec.RoleReader.AtLeast(sec.RoleReader))
	assert.False(t, sec.RoleReader.AtLeast(sec.RoleOperator))
	assert.False(t, sec.Role("guest").AtLeast(sec.RoleReader))
}
