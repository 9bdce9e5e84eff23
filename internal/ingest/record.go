package ingest

import (
	"bytes"
	"context"
	"encoding/json"

	"wallfetch/internal/model"
	"wallfetch/internal/vkapi"
)

// BuildPostRecord fetches a post and its flattened thread. It returns nil
// without error when the post is unavailable; comments are not requested then.
// Comments and replies are always read in pages of DefaultPageSize.
func BuildPostRecord(ctx context.Context, api vkapi.WallAPI, ownerID, postID int64, opts Options) (*model.PostRecord, error) {
	post, err := FetchPost(ctx, api, ownerID, postID, opts)
	if err != nil || post == nil {
		return nil, err
	}
	comments, err := FlattenComments(ctx, api, ownerID, postID, DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return &model.PostRecord{Post: *post, Comments: comments}, nil
}

// BuildRecord is BuildPostRecord serialized. ok is false when the post is unavailable.
func BuildRecord(ctx context.Context, api vkapi.WallAPI, ownerID, postID int64, opts Options) (record string, ok bool, err error) {
	rec, err := BuildPostRecord(ctx, api, ownerID, postID, opts)
	if err != nil || rec == nil {
		return "", false, err
	}
	s, err := EncodeRecord(*rec)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// EncodeRecord renders a record as one line of JSON. Non-ASCII text and
// HTML-significant characters are written as is.
func EncodeRecord(rec model.PostRecord) (string, error) {
	if rec.Comments == nil {
		rec.Comments = []model.Comment{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
