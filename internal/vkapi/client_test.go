package vkapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a handler with pacing disabled.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient("secret", Options{BaseURL: ts.URL, Version: "5.199", RPS: -1, Timeout: 5 * time.Second})
}

func TestCallSendsTokenAndVersion(t *testing.T) {
	var got url.Values
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"response":{"count":0,"items":[]}}`))
	})
	items, err := c.WallGet(context.Background(), "apiclub", 100, 200)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "/wall.get", path)
	assert.Equal(t, "secret", got.Get("access_token"))
	assert.Equal(t, "5.199", got.Get("v"))
	assert.Equal(t, "apiclub", got.Get("domain"))
	assert.Equal(t, "100", got.Get("count"))
	assert.Equal(t, "200", got.Get("offset"))
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"error_code":6,"error_msg":"Too many requests per second"}}`))
	})
	_, err := c.WallGet(context.Background(), "apiclub", 100, 0)
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, MethodWallGet, apiErr.Method)
	assert.True(t, IsCode(err, CodeTooManyRequests))
	assert.Contains(t, err.Error(), "Too many requests")
}

func TestHTTPStatusIsFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GroupsGetByID(context.Background(), "apiclub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGroupsGetByIDBothShapes(t *testing.T) {
	bodies := []string{
		`{"response":{"groups":[{"id":1,"name":"VK API","screen_name":"apiclub"}],"profiles":[]}}`,
		`{"response":[{"id":1,"name":"VK API","screen_name":"apiclub"}]}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "apiclub", r.URL.Query().Get("group_id"))
			_, _ = w.Write([]byte(body))
		})
		groups, err := c.GroupsGetByID(context.Background(), "apiclub")
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, int64(1), groups[0].ID)
		assert.Equal(t, "apiclub", groups[0].ScreenName)
	}
}

func TestWallGetByIDOptionalViews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-1_42", r.URL.Query().Get("posts"))
		_, _ = w.Write([]byte(`{"response":{"items":[{"id":42,"owner_id":-1,"date":1673740800,"text":"привет","likes":{"count":5}}]}}`))
	})
	posts, err := c.WallGetByID(context.Background(), -1, 42)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "привет", posts[0].Text)
	assert.Equal(t, 5, posts[0].LikeCount())
	assert.Nil(t, posts[0].Views)
	assert.Equal(t, 0, posts[0].ViewCount())
}

func TestWallGetByIDEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[]}`))
	})
	posts, err := c.WallGetByID(context.Background(), -1, 42)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestWallGetByIDMissingLikesIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"items":[{"id":42,"owner_id":-1,"date":1,"text":"x"}]}}`))
	})
	_, err := c.WallGetByID(context.Background(), -1, 42)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWallGetCommentsParams(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"response":{"count":2,"items":[
			{"id":7,"date":10,"text":"hi","likes":{"count":1}},
			{"id":8,"date":11,"text":"","deleted":true}
		]}}`))
	})
	items, err := c.WallGetComments(context.Background(), CommentsQuery{OwnerID: -1, PostID: 42, CommentID: 7, Count: 100, NeedLikes: true})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "-1", got.Get("owner_id"))
	assert.Equal(t, "42", got.Get("post_id"))
	assert.Equal(t, "7", got.Get("comment_id"))
	assert.Equal(t, "1", got.Get("need_likes"))
	assert.Equal(t, "100", got.Get("count"))
	assert.False(t, got.Has("offset"))
	assert.True(t, items[1].Deleted)
}

func TestWallGetCommentsMissingLikesIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"count":1,"items":[{"id":7,"date":10,"text":"hi"}]}}`))
	})
	_, err := c.WallGetComments(context.Background(), CommentsQuery{OwnerID: -1, PostID: 42, Count: 100, NeedLikes: true})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMissingResponseIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := c.WallGet(context.Background(), "apiclub", 100, 0)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCancelledContextStopsBeforeRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.WallGet(ctx, "apiclub", 100, 0)
	require.Error(t, err)
	assert.False(t, called)
}

func TestTransportErrorHidesToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()
	c := NewClient("SUPERSECRET", Options{BaseURL: base, RPS: -1, Timeout: 5 * time.Second})
	_, err := c.WallGet(context.Background(), "apiclub", 100, 0)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRET")
	assert.NotContains(t, err.Error(), "access_token")
	assert.Contains(t, err.Error(), base+"/wall.get")
	var ue *url.Error
	assert.True(t, errors.As(err, &ue))
}
