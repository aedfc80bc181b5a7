// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/pkg/convert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 119, convert.ToInt("119"))
	assert.Equal(t, 3, convert.ToInt(" 3 "))
	assert.Zero(t, convert.ToInt(""))
	assert.Zero(t, convert.ToInt("three"))
}

func TestToBool(t *testing.T) {
	for _, raw := range []string{"true", "1", "TRUE", "yes", "on"} {
		assert.True(t, convert.ToBool(raw), raw)
	}
	for _, raw := range []string{"", "false", "0", "no", "plain"} {
		assert.False(t, convert.ToBool(raw), raw)
	}
}
