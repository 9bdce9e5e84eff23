// Package vkapitest provides an in-memory vkapi.WallAPI for tests.
package vkapitest

import (
	"context"
	"fmt"

	"wallfetch/internal/vkapi"
)

// Call records one method invocation.
type Call struct {
	Method string
	Arg    string
}

// Fake serves a scripted wall. Wall is the full wall in API order and is
// paged by count/offset; comment lists are cut at the requested count.
type Fake struct {
	Groups   map[string][]vkapi.Group
	Wall     []vkapi.WallItem
	Posts    map[int64]vkapi.WallPost
	Comments map[int64][]vkapi.CommentItem // by post id
	Replies  map[int64][]vkapi.CommentItem // by parent comment id
	// Errs fails the named method; ErrOn narrows it to one argument.
	Errs  map[string]error
	ErrOn map[string]string

	Calls []Call
}

func (f *Fake) record(method, arg string) error {
	f.Calls = append(f.Calls, Call{Method: method, Arg: arg})
	if err, ok := f.Errs[method]; ok {
		if want, narrowed := f.ErrOn[method]; !narrowed || want == arg {
			return err
		}
	}
	return nil
}

// CallCount returns how many times method was invoked.
func (f *Fake) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Args returns the arguments of every call to method, in order.
func (f *Fake) Args(method string) []string {
	var out []string
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c.Arg)
		}
	}
	return out
}

func (f *Fake) GroupsGetByID(ctx context.Context, groupID string) ([]vkapi.Group, error) {
	if err := f.record(vkapi.MethodGroupsGetByID, groupID); err != nil {
		return nil, err
	}
	return f.Groups[groupID], nil
}

func (f *Fake) WallGet(ctx context.Context, domain string, count, offset int) ([]vkapi.WallItem, error) {
	if err := f.record(vkapi.MethodWallGet, fmt.Sprintf("%s@%d", domain, offset)); err != nil {
		return nil, err
	}
	if offset >= len(f.Wall) {
		return nil, nil
	}
	end := min(offset+count, len(f.Wall))
	return f.Wall[offset:end], nil
}

func (f *Fake) WallGetByID(ctx context.Context, ownerID, postID int64) ([]vkapi.WallPost, error) {
	if err := f.record(vkapi.MethodWallGetByID, fmt.Sprintf("%d_%d", ownerID, postID)); err != nil {
		return nil, err
	}
	p, ok := f.Posts[postID]
	if !ok {
		return nil, nil
	}
	return []vkapi.WallPost{p}, nil
}

func (f *Fake) WallGetComments(ctx context.Context, q vkapi.CommentsQuery) ([]vkapi.CommentItem, error) {
	var items []vkapi.CommentItem
	var arg string
	if q.CommentID != 0 {
		arg = fmt.Sprintf("reply:%d", q.CommentID)
		items = f.Replies[q.CommentID]
	} else {
		arg = fmt.Sprintf("post:%d", q.PostID)
		items = f.Comments[q.PostID]
	}
	if err := f.record(vkapi.MethodWallGetComments, arg); err != nil {
		return nil, err
	}
	return items[:min(q.Count, len(items))], nil
}

// Comment builds a non-deleted comment item.
func Comment(id int64, text string, likes int, date int64) vkapi.CommentItem {
	return vkapi.CommentItem{ID: id, Text: text, Likes: &vkapi.Counter{Count: likes}, Date: date}
}

// Post builds a wall post with likes and views.
func Post(ownerID, id int64, text string, likes, views int, date int64) vkapi.WallPost {
	return vkapi.WallPost{
		ID: id, OwnerID: ownerID, Text: text, Date: date,
		Likes: &vkapi.Counter{Count: likes},
		Views: &vkapi.Counter{Count: views},
	}
}

var _ vkapi.WallAPI = (*Fake)(nil)
