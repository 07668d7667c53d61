package server

import (
	"net/http"

	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
)

type updateProfileInput struct {
	DisplayName *string `json:"displayName" binding:"omitempty,max=100"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	AvatarUrl   *string `json:"avatarUrl" binding:"omitempty,url"`
}

// GetUser returns a profile by user id.
func (s *Server) GetUser(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var user model.User
	if result := s.DB.First(&user, "id = ?", c.Param("userId")); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, s.userData(&user, userId))
}

// GetUserByUsername returns a profile by unique handle.
func (s *Server) GetUserByUsername(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var user model.User
	if result := s.DB.First(&user, "username = ?", c.Param("username")); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, s.userData(&user, userId))
}

// UpdateProfile patches the caller's own display name, bio or avatar.
func (s *Server) UpdateProfile(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	var input updateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	if result := s.DB.First(&user, "id = ?", userId); result.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		updates["display_name"] = *input.DisplayName
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.AvatarUrl != nil {
		updates["avatar_url"] = *input.AvatarUrl
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
			Logger.Log.Error("fail to update profile: ", err)
			internalError(c)
			return
		}
	}

	s.DB.First(&user, "id = ?", userId)
	c.JSON(http.StatusOK, s.userData(&user, userId))
}
