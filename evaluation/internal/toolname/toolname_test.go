//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package toolname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"get_weather", "get_weather"},
		{"Get Weather", "get_weather"},
		{"  GET_WEATHER  ", "get_weather"},
		{"search web pages", "search_web_pages"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, Normalize(c.in))
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("get_weather", "Get Weather"))
	assert.True(t, Equal("search", "SEARCH"))
	assert.False(t, Equal("get_weather", "get_forecast"))
}
