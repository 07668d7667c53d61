package server

import (
	"net/http"
	"testing"

	"github.com/Luismorlan/socialmux/utils"
	"github.com/stretchr/testify/require"
)

func TestChatToken(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	user := utils.CreateTestUser(t, db, "chatty", "chatty")

	recorder := doRequest(t, router, http.MethodGet, "/api/chat/token", user.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, recorder, &body)
	require.Equal(t, "fake-token-"+user.Id, body.Token)
}

func TestChatUnreadCount(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, chatService := newTestServer(db)
	router := newTestRouter(s)

	user := utils.CreateTestUser(t, db, "chatty", "chatty")
	chatService.UnreadCount = 7

	recorder := doRequest(t, router, http.MethodGet, "/api/chat/unread-count", user.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		UnreadCount int `json:"unreadCount"`
	}
	decodeBody(t, recorder, &body)
	require.Equal(t, 7, body.UnreadCount)
}
