package vkapi

// Method names used by the harvester.
const (
	MethodGroupsGetByID   = "groups.getById"
	MethodWallGet         = "wall.get"
	MethodWallGetByID     = "wall.getById"
	MethodWallGetComments = "wall.getComments"
)

// Counter is VK's {"count": N} object (likes, views, reposts).
type Counter struct {
	Count int `json:"count"`
}

// Group is a community returned by groups.getById.
type Group struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// WallItem is the part of a wall.get item needed to enumerate posts.
type WallItem struct {
	ID       int64 `json:"id"`
	OwnerID  int64 `json:"owner_id"`
	Date     int64 `json:"date"`
	IsPinned int   `json:"is_pinned"`
}

// WallPost is a single post returned by wall.getById.
// Views is absent on posts published before view counting existed.
type WallPost struct {
	ID      int64    `json:"id"`
	OwnerID int64    `json:"owner_id"`
	Date    int64    `json:"date"`
	Text    string   `json:"text"`
	Likes   *Counter `json:"likes"`
	Views   *Counter `json:"views"`
	Reposts *Counter `json:"reposts"`
}

// CommentItem is a comment or reply returned by wall.getComments.
type CommentItem struct {
	ID      int64    `json:"id"`
	FromID  int64    `json:"from_id"`
	Date    int64    `json:"date"`
	Text    string   `json:"text"`
	Likes   *Counter `json:"likes"`
	Deleted bool     `json:"deleted"`
}

// CommentsQuery selects one page of wall.getComments. A non-zero CommentID
// lists the replies of that comment instead of the post's top level.
// Only the first page is ever requested.
type CommentsQuery struct {
	OwnerID   int64
	PostID    int64
	CommentID int64
	Count     int
	NeedLikes bool
}

func (c *Counter) value() int {
	if c == nil {
		return 0
	}
	return c.Count
}

// LikeCount returns the like counter, 0 when absent.
func (p WallPost) LikeCount() int { return p.Likes.value() }

// ViewCount returns the view counter, 0 when absent.
func (p WallPost) ViewCount() int { return p.Views.value() }

// RepostCount returns the repost counter, 0 when absent.
func (p WallPost) RepostCount() int { return p.Reposts.value() }

// LikeCount returns the like counter, 0 when absent.
func (c CommentItem) LikeCount() int { return c.Likes.value() }
