package integration

import (
	"fmt"
	"testing"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectConversationFlow(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	aliceEmail := fmt.Sprintf("alice-%s@example.com", suffix)
	bobEmail := fmt.Sprintf("bob-%s@example.com", suffix)
	seedUser(t, db, aliceEmail, "alice"+suffix, "supersecret", "agent")
	bobId := seedUser(t, db, bobEmail, "bob"+suffix, "supersecret", "agent")

	alice := loginAs(t, app, aliceEmail, "supersecret")
	bob := loginAs(t, app, bobEmail, "supersecret")

	var conversationId uuid.UUID

	t.Run("create direct conversation", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/chat/direct", alice.Tokens.AccessToken, dto.CreateDirectRequest{
			OtherUserId: bobId,
		})
		require.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.CreateDirectResponse]
		decodeBody(t, resp, &result)
		require.NotEqual(t, uuid.Nil, result.Data.ConversationId)
		conversationId = result.Data.ConversationId
		t.Cleanup(func() { cleanupConversation(db, conversationId) })
	})

	t.Run("find-or-create is idempotent from either side", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/chat/direct", bob.Tokens.AccessToken, dto.CreateDirectRequest{
			OtherUserId: alice.User.Id,
		})
		require.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.CreateDirectResponse]
		decodeBody(t, resp, &result)
		assert.Equal(t, conversationId, result.Data.ConversationId)
	})

	t.Run("self conversation rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/chat/direct", alice.Tokens.AccessToken, dto.CreateDirectRequest{
			OtherUserId: alice.User.Id,
		})
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("messages, unread count and read stamping", func(t *testing.T) {
		for _, content := range []string{"first", "second", "third"} {
			resp := doJSON(t, app, "POST", "/api/chat/messages", alice.Tokens.AccessToken, dto.SendMessageRequest{
				ConversationId: conversationId,
				Content:        content,
			})
			require.Equal(t, 201, resp.StatusCode)
		}

		// Bob has three unread messages before he opens the conversation.
		resp := doJSON(t, app, "GET", "/api/chat/conversations", bob.Tokens.AccessToken, nil)
		require.Equal(t, 200, resp.StatusCode)
		var list serverutils.BaseResponse[[]dto.ConversationResponse]
		decodeBody(t, resp, &list)
		require.Len(t, list.Data, 1)
		assert.Equal(t, int64(3), list.Data[0].UnreadCount)
		require.NotNil(t, list.Data[0].LastMessage)
		assert.Equal(t, "third", list.Data[0].LastMessage.Content)

		// Reading returns chronological order and stamps last_read.
		msgResp := doJSON(t, app, "GET",
			fmt.Sprintf("/api/chat/messages?conversation_id=%s&limit=2&offset=0", conversationId),
			bob.Tokens.AccessToken, nil)
		require.Equal(t, 200, msgResp.StatusCode)
		var msgs serverutils.BaseResponse[[]dto.MessageResponse]
		decodeBody(t, msgResp, &msgs)
		require.Len(t, msgs.Data, 2)
		// Offset 0 is the most recent page, ascending within the page.
		assert.Equal(t, "second", msgs.Data[0].Content)
		assert.Equal(t, "third", msgs.Data[1].Content)

		resp = doJSON(t, app, "GET", "/api/chat/conversations", bob.Tokens.AccessToken, nil)
		require.Equal(t, 200, resp.StatusCode)
		decodeBody(t, resp, &list)
		require.Len(t, list.Data, 1)
		assert.Equal(t, int64(0), list.Data[0].UnreadCount)
	})

	t.Run("sender's own messages never count as unread", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/chat/conversations", alice.Tokens.AccessToken, nil)
		require.Equal(t, 200, resp.StatusCode)
		var list serverutils.BaseResponse[[]dto.ConversationResponse]
		decodeBody(t, resp, &list)
		require.Len(t, list.Data, 1)
		assert.Equal(t, int64(0), list.Data[0].UnreadCount)
	})
}

func TestConversationMembershipGuard(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	aliceEmail := fmt.Sprintf("ga-%s@example.com", suffix)
	bobEmail := fmt.Sprintf("gb-%s@example.com", suffix)
	eveEmail := fmt.Sprintf("ge-%s@example.com", suffix)
	seedUser(t, db, aliceEmail, "ga"+suffix, "supersecret", "agent")
	bobId := seedUser(t, db, bobEmail, "gb"+suffix, "supersecret", "agent")
	seedUser(t, db, eveEmail, "ge"+suffix, "supersecret", "agent")

	alice := loginAs(t, app, aliceEmail, "supersecret")
	eve := loginAs(t, app, eveEmail, "supersecret")

	resp := doJSON(t, app, "POST", "/api/chat/direct", alice.Tokens.AccessToken, dto.CreateDirectRequest{
		OtherUserId: bobId,
	})
	require.Equal(t, 200, resp.StatusCode)
	var direct serverutils.BaseResponse[dto.CreateDirectResponse]
	decodeBody(t, resp, &direct)
	conversationId := direct.Data.ConversationId
	t.Cleanup(func() { cleanupConversation(db, conversationId) })

	t.Run("non-member cannot read", func(t *testing.T) {
		resp := doJSON(t, app, "GET",
			fmt.Sprintf("/api/chat/messages?conversation_id=%s", conversationId),
			eve.Tokens.AccessToken, nil)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("non-member cannot send", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/chat/messages", eve.Tokens.AccessToken, dto.SendMessageRequest{
			ConversationId: conversationId,
			Content:        "let me in",
		})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("unknown conversation is 404", func(t *testing.T) {
		resp := doJSON(t, app, "GET",
			fmt.Sprintf("/api/chat/messages?conversation_id=%s", uuid.New()),
			alice.Tokens.AccessToken, nil)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/chat/conversations", "", nil)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
