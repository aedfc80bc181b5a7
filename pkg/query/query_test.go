// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lectio/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"OT", "NT"}, query.StringSlice("OT, NT"))
	assert.Equal(t, []string{"NT"}, query.StringSlice(",NT,, "))
	assert.Nil(t, query.StringSlice(""))
	assert.Nil(t, query.StringSlice(" , "))
}
