//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryDefaultsModelName(t *testing.T) {
	m, err := Factory()(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, m.Info().Name)
}

func TestFactoryRoutesToOpenAI(t *testing.T) {
	m, err := Factory()(context.Background(), "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", m.Info().Name)
}
