package ingest

import (
	"context"

	"wallfetch/internal/model"
	"wallfetch/internal/vkapi"
)

// FetchPost loads one post. It returns nil without error when the wall no
// longer serves the post.
func FetchPost(ctx context.Context, api vkapi.WallAPI, ownerID, postID int64, opts Options) (*model.Post, error) {
	posts, err := api.WallGetByID(ctx, ownerID, postID)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	p := posts[0]
	out := &model.Post{
		PostID:  postID,
		OwnerID: ownerID,
		Text:    p.Text,
		Likes:   p.LikeCount(),
		Date:    opts.formatDate(p.Date),
	}
	if opts.IncludeViews {
		v := p.ViewCount()
		out.Views = &v
	}
	if opts.IncludeReposts {
		r := p.RepostCount()
		out.Reposts = &r
	}
	return out, nil
}
