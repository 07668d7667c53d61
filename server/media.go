package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/Luismorlan/socialmux/model"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// mediaTypeFromContentType maps the upload's content type onto the stored
// media type. Anything that is not an image or a video is rejected.
func mediaTypeFromContentType(contentType string) (string, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return model.MediaTypeVideo, true
	default:
		return "", false
	}
}

// UploadMedia accepts a multipart image or video file, pushes it to the media
// store and records an unattached Media row owned by the uploader. The row
// stays orphaned until a post claims it, unclaimed uploads are garbage
// collected by the scheduled cleanup.
func (s *Server) UploadMedia(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file found"})
		return
	}

	mediaType, ok := mediaTypeFromContentType(fileHeader.Header.Get("Content-Type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported media type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Logger.Log.Error("fail to open uploaded file: ", err)
		internalError(c)
		return
	}
	defer file.Close()

	key, url, err := s.Store.Store(fileHeader.Filename, file)
	if err != nil {
		Logger.Log.Error("fail to store uploaded file: ", err)
		internalError(c)
		return
	}

	media := model.Media{
		Id:         uuid.New().String(),
		CreatedAt:  time.Now(),
		Url:        url,
		FileId:     key,
		Type:       mediaType,
		UploaderID: userId,
	}
	if err := s.DB.Create(&media).Error; err != nil {
		Logger.Log.Error("fail to record uploaded media: ", err)
		internalError(c)
		return
	}

	s.incr("media.uploaded")
	c.JSON(http.StatusOK, MediaData{Id: media.Id, Url: media.Url, Type: media.Type})
}
