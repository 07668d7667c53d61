package server

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Luismorlan/socialmux/utils"
	"github.com/stretchr/testify/require"
)

func TestSearchPosts(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	s, _, _ := newTestServer(db)
	router := newTestRouter(s)

	viewer := utils.CreateTestUser(t, db, "viewer", "viewer")
	gopher := utils.CreateTestUser(t, db, "gopher", "gopher")
	utils.CreateTestPost(t, db, viewer.Id, "talking about goroutines", time.Now())
	byAuthor := utils.CreateTestPost(t, db, gopher.Id, "unrelated content", time.Now().Add(-time.Minute))
	utils.CreateTestPost(t, db, viewer.Id, "nothing relevant", time.Now().Add(-2*time.Minute))

	t.Run("matches content case insensitively", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/api/search?q="+url.QueryEscape("GOROUTINES"), viewer.Id, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		var page postsPage
		decodeBody(t, recorder, &page)
		require.Equal(t, 1, len(page.Items))
		require.Equal(t, "talking about goroutines", page.Items[0].Content)
	})

	t.Run("matches the author handle", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/api/search?q=gopher", viewer.Id, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		var page postsPage
		decodeBody(t, recorder, &page)
		require.Equal(t, 1, len(page.Items))
		require.Equal(t, byAuthor.Id, page.Items[0].Id)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/api/search?q=", viewer.Id, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		var page postsPage
		decodeBody(t, recorder, &page)
		require.Equal(t, 3, len(page.Items))
	})
}
