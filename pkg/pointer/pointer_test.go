// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/pkg/pointer"
)

func TestPointer(t *testing.T) {
	end := pointer.To(18)
	assert.Equal(t, 18, pointer.Val(end))
	assert.Equal(t, 18, pointer.Fallback(end, 16))

	var single *int
	assert.Zero(t, pointer.Val(single))
	assert.Equal(t, 16, pointer.Fallback(single, 16))
}
