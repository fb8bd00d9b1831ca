//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageConstructors(t *testing.T) {
	sys := NewSystemMessage("be terse")
	assert.Equal(t, RoleSystem, sys.Role)
	assert.Equal(t, "be terse", sys.Content)

	user := NewUserMessage("hello")
	assert.Equal(t, RoleUser, user.Role)

	assistant := NewAssistantMessage("hi")
	assert.Equal(t, RoleAssistant, assistant.Role)

	tool := NewToolMessage("call-1", "get_weather", `{"temp":21}`)
	assert.Equal(t, RoleTool, tool.Role)
	assert.Equal(t, "call-1", tool.ToolID)
	assert.Equal(t, "get_weather", tool.ToolName)
}
