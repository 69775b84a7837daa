package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelCreate_AdminOnly(t *testing.T) {
	f := newFixture(t)
	_, userToken := f.seedAccount(t, "user@x.com", "pw123", "user")
	_, adminToken := f.seedAccount(t, "admin@x.com", "pw123", "admin")
	s := NewChannelService(nil, f.manager, f.verifier)

	_, err := s.Create(context.Background(), userToken, "user@x.com", "general")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	c, err := s.Create(context.Background(), adminToken, "admin@x.com", "general")
	require.NoError(t, err)
	assert.Equal(t, "general", c.Name)
}

func TestPostMessage_AttributedToVerifiedAccount(t *testing.T) {
	f := newFixture(t)
	_, adminToken := f.seedAccount(t, "admin@x.com", "pw123", "admin")
	_, aliceToken := f.seedAccount(t, "alice@x.com", "pw123", "user")
	s := NewChannelService(nil, f.manager, f.verifier)

	c, err := s.Create(context.Background(), adminToken, "admin@x.com", "general")
	require.NoError(t, err)

	m, err := s.PostMessage(context.Background(), aliceToken, "alice@x.com", c.ID, "hi all")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", m.UserEmail)
	assert.Equal(t, "user-alice@x.com", m.Username)

	messages, err := s.ListMessages(context.Background(), aliceToken, "alice@x.com", c.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi all", messages[0].Message)
}

func TestPostMessage_UnknownChannel(t *testing.T) {
	f := newFixture(t)
	_, token := f.seedAccount(t, "alice@x.com", "pw123", "user")
	s := NewChannelService(nil, f.manager, f.verifier)

	_, err := s.PostMessage(context.Background(), token, "alice@x.com", 42, "hi")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListRecentChannels_NewestFirst(t *testing.T) {
	f := newFixture(t)
	_, adminToken := f.seedAccount(t, "admin@x.com", "pw123", "admin")
	s := NewChannelService(nil, f.manager, f.verifier)

	for _, name := range []string{"one", "two", "three", "four"} {
		_, err := s.Create(context.Background(), adminToken, "admin@x.com", name)
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(context.Background(), adminToken, "admin@x.com")
	require.NoError(t, err)
	require.Len(t, recent, recentListLimit)
	assert.Equal(t, "four", recent[0].Name)
}
