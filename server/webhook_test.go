package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Luismorlan/socialmux/model"
	"github.com/Luismorlan/socialmux/utils"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm"
)

const userCreatedPayload = `{
	"type": "user.created",
	"data": {
		"id": "provider_user_1",
		"username": "newcomer",
		"first_name": "New",
		"last_name": "Comer",
		"image_url": "https://img.example.com/newcomer.png",
		"email_addresses": [{"email_address": "newcomer@example.com"}]
	}
}`

// deliverWebhook signs payload the way the identity provider does and posts
// it to the webhook route.
func deliverWebhook(t *testing.T, s *Server, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := newTestRouter(s)

	wh, err := svix.NewWebhook(s.WebhookSecret)
	require.NoError(t, err)
	msgId := "msg_test"
	timestamp := time.Now()
	signature, err := wh.Sign(msgId, timestamp, payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhook/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", msgId)
	req.Header.Set("svix-timestamp", fmt.Sprintf("%d", timestamp.Unix()))
	req.Header.Set("svix-signature", signature)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	return count
}

func TestWebhookProvisionsUser(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, chatService := newTestServer(db)

	recorder := deliverWebhook(t, s, []byte(userCreatedPayload))
	require.Equal(t, http.StatusOK, recorder.Code)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", "provider_user_1").Error)
	require.Equal(t, "newcomer", user.Username)
	require.Equal(t, "New Comer", user.DisplayName)
	require.Equal(t, "newcomer@example.com", user.Email)
	require.Equal(t, "https://img.example.com/newcomer.png", user.AvatarUrl)

	// Mirrored into the chat backend exactly once.
	require.Equal(t, 1, len(chatService.Upserted))
	require.Equal(t, "provider_user_1", chatService.Upserted[0].Id)
}

// The provider delivers at least once, a redelivered event must not create a
// second user row. The chat mirror runs on every delivery, it is an upsert
// keyed by user id on the chat backend side.
func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, chatService := newTestServer(db)

	for i := 0; i < 2; i++ {
		recorder := deliverWebhook(t, s, []byte(userCreatedPayload))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	require.EqualValues(t, 1, userCount(t, db))
	for _, upserted := range chatService.Upserted {
		require.Equal(t, "provider_user_1", upserted.Id)
	}
}

// A failed chat mirror returns 500 so the provider redelivers, and the
// redelivery must complete the mirror even though the user row already
// exists from the first attempt.
func TestWebhookRedeliveryCompletesFailedChatMirror(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, chatService := newTestServer(db)
	chatService.FailUpserts = 1

	recorder := deliverWebhook(t, s, []byte(userCreatedPayload))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Empty(t, chatService.Upserted)

	// The row landed on the first attempt regardless.
	require.EqualValues(t, 1, userCount(t, db))

	recorder = deliverWebhook(t, s, []byte(userCreatedPayload))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.EqualValues(t, 1, userCount(t, db))
	require.Equal(t, 1, len(chatService.Upserted))
	require.Equal(t, "provider_user_1", chatService.Upserted[0].Id)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	req := httptest.NewRequest(http.MethodPost, "/webhook/register", bytes.NewReader([]byte(userCreatedPayload)))
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", fmt.Sprintf("%d", time.Now().Unix()))
	req.Header.Set("svix-signature", "v1,bm90LWEtcmVhbC1zaWduYXR1cmU")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.EqualValues(t, 0, userCount(t, db))
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, chatService := newTestServer(db)

	payload := []byte(`{"type": "user.deleted", "data": {"id": "provider_user_1"}}`)
	recorder := deliverWebhook(t, s, payload)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.EqualValues(t, 0, userCount(t, db))
	require.Empty(t, chatService.Upserted)
}

func TestWebhookRejectsIncompleteUserData(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)

	payload := []byte(`{"type": "user.created", "data": {"id": "provider_user_1", "email_addresses": []}}`)
	recorder := deliverWebhook(t, s, payload)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.EqualValues(t, 0, userCount(t, db))
}
