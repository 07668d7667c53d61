package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Luismorlan/socialmux/chat"
	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm/clause"
)

const eventTypeUserCreated = "user.created"

// providerEvent is the identity provider's webhook envelope. Only the fields
// user provisioning needs are decoded.
type providerEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageUrl       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// HandleProviderEvent verifies and processes an inbound identity provider
// webhook. A "user.created" event provisions the local user row keyed by the
// provider's user id and mirrors the user into the chat backend. The provider
// delivers at least once: a redelivered event hits the primary key conflict
// and is ignored, so provisioning is idempotent without any event bookkeeping.
// Nothing is persisted before the signature verifies.
func (s *Server) HandleProviderEvent(c *gin.Context) {
	if s.WebhookSecret == "" {
		Logger.Log.Error("webhook secret is not configured")
		internalError(c)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	wh, err := svix.NewWebhook(s.WebhookSecret)
	if err != nil {
		Logger.Log.Error("malformed webhook secret: ", err)
		internalError(c)
		return
	}
	if err := wh.Verify(payload, c.Request.Header); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
		return
	}

	// Decode from the raw payload, GetRawData above already consumed the body.
	var event providerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	if event.Type != eventTypeUserCreated {
		// Other event types are acknowledged and dropped.
		c.JSON(http.StatusOK, gin.H{"message": "event ignored"})
		return
	}

	if event.Data.ID == "" || len(event.Data.EmailAddresses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required user data"})
		return
	}

	displayName := event.Data.FirstName
	if event.Data.LastName != "" {
		if displayName != "" {
			displayName += " "
		}
		displayName += event.Data.LastName
	}

	user := model.User{
		Id:          event.Data.ID,
		CreatedAt:   time.Now(),
		Email:       event.Data.EmailAddresses[0].EmailAddress,
		Username:    event.Data.Username,
		DisplayName: displayName,
		AvatarUrl:   event.Data.ImageUrl,
	}
	result := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&user)
	if result.Error != nil {
		Logger.Log.Error("fail to provision user: ", result.Error)
		internalError(c)
		return
	}

	// Mirror into the chat backend on every delivery, not only when the row
	// was just inserted. On failure we return 500 so the provider redelivers,
	// and the redelivery must retry the upsert even though it hits the primary
	// key conflict, otherwise a user whose first mirror attempt failed would
	// never reach the chat backend. The upsert itself is idempotent.
	if err := s.Chat.UpsertUser(c.Request.Context(), &chat.UserInfo{
		Id:          user.Id,
		DisplayName: user.DisplayName,
		AvatarUrl:   user.AvatarUrl,
	}); err != nil {
		Logger.Log.Error("fail to mirror user into chat backend: ", err)
		internalError(c)
		return
	}
	if result.RowsAffected > 0 {
		s.incr("user.provisioned")
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook processed"})
}
