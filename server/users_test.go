package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/Luismorlan/socialmux/model"
	"github.com/Luismorlan/socialmux/utils"
	"github.com/stretchr/testify/require"
)

func TestGetUserProfile(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	viewer := utils.CreateTestUser(t, db, "viewer", "viewer")
	target := utils.CreateTestUser(t, db, "target", "target")
	utils.CreateTestPost(t, db, target.Id, "one post", time.Now())
	require.NoError(t, db.Create(&model.Follow{FollowerID: viewer.Id, FollowingID: target.Id, CreatedAt: time.Now()}).Error)

	var profile UserData
	recorder := doRequest(t, router, http.MethodGet, "/api/users/"+target.Id, viewer.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &profile)
	require.Equal(t, target.Id, profile.Id)
	require.Equal(t, "target", profile.Username)
	require.EqualValues(t, 1, profile.FollowerCount)
	require.EqualValues(t, 1, profile.PostCount)
	require.True(t, profile.IsFollowedByViewer)

	recorder = doRequest(t, router, http.MethodGet, "/api/users/nobody", viewer.Id, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetUserByUsername(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	viewer := utils.CreateTestUser(t, db, "viewer", "viewer")
	target := utils.CreateTestUser(t, db, "target", "target")

	var profile UserData
	recorder := doRequest(t, router, http.MethodGet, "/api/profiles/target", viewer.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeBody(t, recorder, &profile)
	require.Equal(t, target.Id, profile.Id)

	recorder = doRequest(t, router, http.MethodGet, "/api/profiles/nobody", viewer.Id, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateProfile(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	user := utils.CreateTestUser(t, db, "user", "user")

	recorder := doRequest(t, router, http.MethodPatch, "/api/users/me", user.Id, map[string]interface{}{
		"displayName": "Fancy Name",
		"bio":         "writes tests",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile UserData
	decodeBody(t, recorder, &profile)
	require.Equal(t, "Fancy Name", profile.DisplayName)
	require.Equal(t, "writes tests", profile.Bio)

	// Fields absent from the patch keep their value.
	var persisted model.User
	require.NoError(t, db.First(&persisted, "id = ?", user.Id).Error)
	require.Equal(t, "user", persisted.Username)
	require.Equal(t, "Fancy Name", persisted.DisplayName)
}

func TestUserPostsFeed(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	viewer := utils.CreateTestUser(t, db, "viewer", "viewer")
	author := utils.CreateTestUser(t, db, "author", "author")
	mine := utils.CreateTestPost(t, db, author.Id, "authored", time.Now())
	utils.CreateTestPost(t, db, viewer.Id, "someone else's", time.Now())

	recorder := doRequest(t, router, http.MethodGet, "/api/users/"+author.Id+"/posts", viewer.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var page postsPage
	decodeBody(t, recorder, &page)
	require.Equal(t, 1, len(page.Items))
	require.Equal(t, mine.Id, page.Items[0].Id)
}
