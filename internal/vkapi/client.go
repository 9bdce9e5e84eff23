package vkapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wallfetch/internal/logging"
	"wallfetch/internal/metrics"
)

// WallAPI defines the VK methods the harvester uses.
type WallAPI interface {
	GroupsGetByID(ctx context.Context, groupID string) ([]Group, error)
	WallGet(ctx context.Context, domain string, count, offset int) ([]WallItem, error)
	WallGetByID(ctx context.Context, ownerID, postID int64) ([]WallPost, error)
	WallGetComments(ctx context.Context, q CommentsQuery) ([]CommentItem, error)
}

// Options configures the HTTP transport.
type Options struct {
	BaseURL string
	Version string
	Lang    string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is a token-authenticated client for the VK API.
type Client struct {
	baseURL    string
	token      string
	version    string
	lang       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client for token. Zero options take the public API
// defaults: version 5.199, a 15s timeout and 3 requests per second.
func NewClient(token string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.vk.com/method"
	}
	if opts.Version == "" {
		opts.Version = "5.199"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      token,
		version:    opts.Version,
		lang:       opts.Lang,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    newLimiter(opts.RPS, opts.Burst),
	}
}

// GroupsGetByID looks up a community by screen name or numeric id.
func (c *Client) GroupsGetByID(ctx context.Context, groupID string) ([]Group, error) {
	params := url.Values{"group_id": {groupID}}
	var raw json.RawMessage
	if err := c.call(ctx, MethodGroupsGetByID, params, &raw); err != nil {
		return nil, err
	}
	// 5.194+ wraps the list in {"groups": [...]}; older versions return a bare array.
	groups, err := unwrapList[Group](raw, "groups")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodGroupsGetByID, err)
	}
	for _, g := range groups {
		if g.ID == 0 {
			return nil, fmt.Errorf("%s: %w: group without id", MethodGroupsGetByID, ErrMalformed)
		}
	}
	return groups, nil
}

// WallGet returns one page of a wall, newest first (pinned post aside).
func (c *Client) WallGet(ctx context.Context, domain string, count, offset int) ([]WallItem, error) {
	params := url.Values{
		"domain": {domain},
		"count":  {strconv.Itoa(count)},
		"offset": {strconv.Itoa(offset)},
	}
	var raw struct {
		Count int        `json:"count"`
		Items []WallItem `json:"items"`
	}
	if err := c.call(ctx, MethodWallGet, params, &raw); err != nil {
		return nil, err
	}
	for _, it := range raw.Items {
		if it.ID == 0 || it.Date == 0 {
			return nil, fmt.Errorf("%s: %w: item without id or date", MethodWallGet, ErrMalformed)
		}
	}
	return raw.Items, nil
}

// WallGetByID fetches a single post. An empty slice means the post is gone.
func (c *Client) WallGetByID(ctx context.Context, ownerID, postID int64) ([]WallPost, error) {
	params := url.Values{"posts": {fmt.Sprintf("%d_%d", ownerID, postID)}}
	var raw json.RawMessage
	if err := c.call(ctx, MethodWallGetByID, params, &raw); err != nil {
		return nil, err
	}
	posts, err := unwrapList[WallPost](raw, "items")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodWallGetByID, err)
	}
	for _, p := range posts {
		if p.Likes == nil {
			return nil, fmt.Errorf("%s: %w: post %d_%d has no likes", MethodWallGetByID, ErrMalformed, ownerID, postID)
		}
	}
	return posts, nil
}

// WallGetComments returns one page of comments, or of replies when q.CommentID is set.
func (c *Client) WallGetComments(ctx context.Context, q CommentsQuery) ([]CommentItem, error) {
	params := url.Values{
		"owner_id": {strconv.FormatInt(q.OwnerID, 10)},
		"post_id":  {strconv.FormatInt(q.PostID, 10)},
		"count":    {strconv.Itoa(q.Count)},
	}
	if q.CommentID != 0 {
		params.Set("comment_id", strconv.FormatInt(q.CommentID, 10))
	}
	if q.NeedLikes {
		params.Set("need_likes", "1")
	}
	var raw struct {
		Count int           `json:"count"`
		Items []CommentItem `json:"items"`
	}
	if err := c.call(ctx, MethodWallGetComments, params, &raw); err != nil {
		return nil, err
	}
	if q.NeedLikes {
		// deleted comments come back without text and without likes
		for _, it := range raw.Items {
			if it.Text != "" && it.Likes == nil {
				return nil, fmt.Errorf("%s: %w: comment %d has no likes", MethodWallGetComments, ErrMalformed, it.ID)
			}
		}
	}
	return raw.Items, nil
}

func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	log := logging.From(ctx)
	params.Set("access_token", c.token)
	params.Set("v", c.version)
	if c.lang != "" {
		params.Set("lang", c.lang)
	}
	u := c.baseURL + "/" + method + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", method, c.redact(err, method))
	}
	req.Header.Set("Accept", "application/json")
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	metrics.IncAPICall(method)
	start := time.Now()
	err = c.do(req, method, out)
	if err != nil {
		metrics.IncAPIError(method)
		log.Debug().Str("method", method).Err(err).Msg("vk call failed")
		return err
	}
	log.Debug().Str("method", method).Dur("took", time.Since(start)).Msg("vk call")
	return nil
}

func (c *Client) do(req *http.Request, method string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, c.redact(err, method))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: vk api status %d", method, resp.StatusCode)
	}
	var env struct {
		Response json.RawMessage `json:"response"`
		Error    *APIError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode: %w", method, err)
	}
	if env.Error != nil {
		env.Error.Method = method
		return env.Error
	}
	if len(env.Response) == 0 {
		return fmt.Errorf("%s: %w: no response field", method, ErrMalformed)
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	return nil
}

// redact replaces the request URL in transport errors, since its query
// carries the access token.
func (c *Client) redact(err error, method string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = c.baseURL + "/" + method
	}
	return err
}

// unwrapList decodes either a bare JSON array or an object holding the array under field.
func unwrapList[T any](raw json.RawMessage, field string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	var out []T
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	inner, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("%w: no %q list", ErrMalformed, field)
	}
	if err := json.Unmarshal(inner, &out); err != nil {
		return nil, err
	}
	return out, nil
}
