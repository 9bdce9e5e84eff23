package ingest

import (
	"context"
	"iter"

	"wallfetch/internal/model"
	"wallfetch/internal/vkapi"
)

// Comments yields a post's thread flattened: each non-empty top-level
// comment followed by its non-empty replies. Only the first page of
// comments, and the first page of replies per comment, is read.
// Replies are requested only for comments that are themselves emitted.
func Comments(ctx context.Context, api vkapi.WallAPI, ownerID, postID int64, pageSize int) iter.Seq2[model.Comment, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return func(yield func(model.Comment, error) bool) {
		top, err := api.WallGetComments(ctx, vkapi.CommentsQuery{
			OwnerID:   ownerID,
			PostID:    postID,
			Count:     pageSize,
			NeedLikes: true,
		})
		if err != nil {
			yield(model.Comment{}, err)
			return
		}
		for _, c := range top {
			if c.Text == "" {
				continue
			}
			if !yield(toComment(c, nil), nil) {
				return
			}
			for r, err := range Replies(ctx, api, ownerID, postID, c.ID, pageSize) {
				if !yield(r, err) || err != nil {
					return
				}
			}
		}
	}
}

// Replies yields the non-empty replies to one comment, tagged with its id.
func Replies(ctx context.Context, api vkapi.WallAPI, ownerID, postID, commentID int64, pageSize int) iter.Seq2[model.Comment, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return func(yield func(model.Comment, error) bool) {
		items, err := api.WallGetComments(ctx, vkapi.CommentsQuery{
			OwnerID:   ownerID,
			PostID:    postID,
			CommentID: commentID,
			Count:     pageSize,
			NeedLikes: true,
		})
		if err != nil {
			yield(model.Comment{}, err)
			return
		}
		parent := commentID
		for _, r := range items {
			if r.Text == "" {
				continue
			}
			if !yield(toComment(r, &parent), nil) {
				return
			}
		}
	}
}

// FlattenComments drains Comments. The result is never nil.
func FlattenComments(ctx context.Context, api vkapi.WallAPI, ownerID, postID int64, pageSize int) ([]model.Comment, error) {
	out := []model.Comment{}
	for c, err := range Comments(ctx, api, ownerID, postID, pageSize) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func toComment(c vkapi.CommentItem, replyTo *int64) model.Comment {
	return model.Comment{
		CommentID: c.ID,
		Text:      c.Text,
		Likes:     c.LikeCount(),
		ReplyTo:   replyTo,
		Date:      c.Date,
	}
}
