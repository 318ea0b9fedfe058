package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePublishAndList(t *testing.T) {
	t.Parallel()

	s := NewService()
	assert.Empty(t, s.List())

	id := s.Publish(KindDegraded, DegradedMessage)
	assert.NotEmpty(t, id)

	notices := s.List()
	require.Len(t, notices, 1)
	assert.Equal(t, KindDegraded, notices[0].Kind)
	assert.Equal(t, DegradedMessage, notices[0].Message)
	assert.True(t, s.Has(KindDegraded))
}

func TestServicePublishReplacesSameKind(t *testing.T) {
	t.Parallel()

	s := NewService()
	first := s.Publish(KindDegraded, "first")
	second := s.Publish(KindDegraded, "second")
	assert.NotEqual(t, first, second)

	notices := s.List()
	require.Len(t, notices, 1)
	assert.Equal(t, "second", notices[0].Message)
}

func TestServiceResolve(t *testing.T) {
	t.Parallel()

	s := NewService()
	s.Publish(KindDegraded, DegradedMessage)
	s.Publish(KindInfo, "catalog reloaded")

	s.Resolve(KindDegraded)
	assert.False(t, s.Has(KindDegraded))

	notices := s.List()
	require.Len(t, notices, 1)
	assert.Equal(t, KindInfo, notices[0].Kind)
}

func TestServiceListReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewService()
	s.Publish(KindInfo, "original")

	got := s.List()
	got[0].Message = "mutated"

	assert.Equal(t, "original", s.List()[0].Message)
}
