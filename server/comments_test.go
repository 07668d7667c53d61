package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Luismorlan/socialmux/model"
	"github.com/Luismorlan/socialmux/utils"
	"github.com/stretchr/testify/require"
)

type commentsPage struct {
	Items          []CommentData `json:"items"`
	PreviousCursor *string       `json:"previousCursor"`
}

// Comments display oldest first but load newest page first, so the walk goes
// backwards: each page is older than the previous one and ascending within
// itself.
func TestListCommentsPagesBackwards(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	author := utils.CreateTestUser(t, db, "author", "author")
	commenter := utils.CreateTestUser(t, db, "commenter", "commenter")
	post := utils.CreateTestPost(t, db, author.Id, "discussed", time.Now().Add(-time.Hour))

	base := time.Now().Add(-30 * time.Minute)
	for i := 0; i < 12; i++ {
		utils.CreateTestComment(t, db, commenter.Id, post.Id, fmt.Sprintf("comment %d", i), base.Add(time.Duration(i)*time.Second))
	}

	seen := map[string]bool{}
	cursor := ""
	var newestOfPrevPage time.Time
	pages := 0
	for {
		path := "/api/posts/" + post.Id + "/comments"
		if cursor != "" {
			path += "?cursor=" + cursor
		}
		recorder := doRequest(t, router, http.MethodGet, path, commenter.Id, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var page commentsPage
		decodeBody(t, recorder, &page)
		pages++

		// Ascending within the page.
		for idx := 1; idx < len(page.Items); idx++ {
			require.True(t, page.Items[idx-1].CreatedAt.Before(page.Items[idx].CreatedAt))
		}
		// Strictly older than everything already seen.
		if !newestOfPrevPage.IsZero() && len(page.Items) > 0 {
			require.True(t, page.Items[len(page.Items)-1].CreatedAt.Before(newestOfPrevPage))
		}
		for _, item := range page.Items {
			require.False(t, seen[item.Id])
			seen[item.Id] = true
		}
		if len(page.Items) > 0 {
			newestOfPrevPage = page.Items[0].CreatedAt
		}

		if page.PreviousCursor == nil {
			require.Equal(t, 2, len(page.Items))
			break
		}
		require.Equal(t, commentsPageSize, len(page.Items))
		cursor = *page.PreviousCursor
	}
	require.Equal(t, 3, pages)
	require.Equal(t, 12, len(seen))
}

func TestCreateComment(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	author := utils.CreateTestUser(t, db, "author", "author")
	commenter := utils.CreateTestUser(t, db, "commenter", "commenter")
	post := utils.CreateTestPost(t, db, author.Id, "open thread", time.Now())

	recorder := doRequest(t, router, http.MethodPost, "/api/posts/"+post.Id+"/comments", commenter.Id,
		map[string]interface{}{"content": "first!"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var created CommentData
	decodeBody(t, recorder, &created)
	require.Equal(t, "first!", created.Content)
	require.Equal(t, commenter.Id, created.User.Id)
	require.Equal(t, post.Id, created.PostID)

	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("recipient_id = ? AND type = ?", author.Id, model.NotificationTypeComment).
		Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)
}

func TestCommentOnOwnPostDoesNotNotify(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	author := utils.CreateTestUser(t, db, "author", "author")
	post := utils.CreateTestPost(t, db, author.Id, "talking to myself", time.Now())

	recorder := doRequest(t, router, http.MethodPost, "/api/posts/"+post.Id+"/comments", author.Id,
		map[string]interface{}{"content": "addendum"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).Where("recipient_id = ?", author.Id).Count(&notifications).Error)
	require.Zero(t, notifications)
}

// A failed notification insert rolls the comment back with it.
func TestCreateCommentRollsBackWhenNotificationInsertFails(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	author := utils.CreateTestUser(t, db, "author", "author")
	commenter := utils.CreateTestUser(t, db, "commenter", "commenter")
	post := utils.CreateTestPost(t, db, author.Id, "thread", time.Now())

	require.NoError(t, db.Migrator().DropTable(&model.Notification{}))

	recorder := doRequest(t, router, http.MethodPost, "/api/posts/"+post.Id+"/comments", commenter.Id,
		map[string]interface{}{"content": "lost take"})
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var comments int64
	require.NoError(t, db.Model(&model.Comment{}).Where("post_id = ?", post.Id).Count(&comments).Error)
	require.Zero(t, comments)
}

func TestDeleteComment(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	author := utils.CreateTestUser(t, db, "author", "author")
	commenter := utils.CreateTestUser(t, db, "commenter", "commenter")
	post := utils.CreateTestPost(t, db, author.Id, "thread", time.Now())
	comment := utils.CreateTestComment(t, db, commenter.Id, post.Id, "hot take", time.Now())

	t.Run("only the author can delete", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodDelete, "/api/comments/"+comment.Id, author.Id, nil)
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("author delete removes the row", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodDelete, "/api/comments/"+comment.Id, commenter.Id, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var rows int64
		require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", comment.Id).Count(&rows).Error)
		require.Zero(t, rows)
	})
}
