package model

// Post is a wall post snapshot taken at fetch time.
type Post struct {
	PostID  int64  `json:"post_id"`
	OwnerID int64  `json:"owner_id"`
	Text    string `json:"text"`
	Likes   int    `json:"likes"`
	Views   *int   `json:"views,omitempty"`
	Reposts *int   `json:"reposts,omitempty"`
	Date    string `json:"date"`
}

// Comment is a top-level comment or a reply. ReplyTo is nil for top-level comments.
type Comment struct {
	CommentID int64  `json:"comment_id"`
	Text      string `json:"text"`
	Likes     int    `json:"likes"`
	ReplyTo   *int64 `json:"reply_to"`
	Date      int64  `json:"date"`
}

// PostRecord is the serialized unit: a post with its flattened comment thread.
type PostRecord struct {
	Post
	Comments []Comment `json:"comments"`
}

// Result is one slot of a range run. Found is false when the post was
// listed but could not be fetched (deleted, hidden); Record is empty then.
type Result struct {
	PostID  int64
	OwnerID int64
	Record  string
	Found   bool
}
