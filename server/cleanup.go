package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/socialmux/model"
	"github.com/Luismorlan/socialmux/utils"
	Logger "github.com/Luismorlan/socialmux/utils/log"
	"github.com/gin-gonic/gin"
)

// Orphaned uploads younger than this are spared in production, the owner may
// still be composing the post. Development keeps no window so tests and local
// runs clean up immediately.
const orphanRetention = 24 * time.Hour

// CleanupOrphanedMedia deletes media rows that never got attached to a post,
// together with their hosted blobs. It is invoked by an external scheduler
// authenticated with the shared cron secret. The whole operation is an
// idempotent batch: blobs are deleted before rows, and a rerun over
// already-deleted blobs is a no-op. There is no concurrency control, the
// deployment runs a single scheduler.
func (s *Server) CleanupOrphanedMedia(c *gin.Context) {
	if s.CronSecret == "" || c.GetHeader("Authorization") != "Bearer "+s.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no valid session"})
		return
	}

	cutoff := time.Now()
	if utils.IsProdEnv() {
		cutoff = cutoff.Add(-orphanRetention)
	}

	var orphans []model.Media
	if err := s.DB.Where("post_id IS NULL AND created_at <= ?", cutoff).
		Find(&orphans).Error; err != nil {
		Logger.Log.Error("fail to list orphaned media: ", err)
		internalError(c)
		return
	}

	if len(orphans) == 0 {
		c.JSON(http.StatusOK, gin.H{"deleted": 0})
		return
	}

	keys := []string{}
	ids := []string{}
	for _, media := range orphans {
		keys = append(keys, media.FileId)
		ids = append(ids, media.Id)
	}

	if err := s.Store.Delete(keys); err != nil {
		// Keep the rows so the next run retries the blob deletion.
		Logger.Log.Error("fail to delete orphaned blobs: ", err)
		internalError(c)
		return
	}

	if err := s.DB.Where("id IN ?", ids).Delete(&model.Media{}).Error; err != nil {
		Logger.Log.Error("fail to delete orphaned media rows: ", err)
		internalError(c)
		return
	}

	Logger.Log.Info("orphaned media cleanup removed ", len(ids), " uploads")
	c.JSON(http.StatusOK, gin.H{"deleted": len(ids)})
}
