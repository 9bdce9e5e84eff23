package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/internal/ingest"
	"wallfetch/internal/model"
	"wallfetch/internal/vkapi"
	"wallfetch/internal/vkapi/vkapitest"
)

type countingProgress struct {
	total, steps, finished int
}

func (p *countingProgress) Start(total int) { p.total = total }
func (p *countingProgress) Step()           { p.steps++ }
func (p *countingProgress) Finish()         { p.finished++ }

func ts(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Unix()
}

func januaryRequest(t *testing.T) Request {
	t.Helper()
	w, err := model.ParseDateWindow("2023-01-01", "2023-01-31", time.UTC)
	require.NoError(t, err)
	opts := ingest.DefaultOptions()
	opts.Location = time.UTC
	return Request{Domain: "apiclub", Window: w, Options: opts}
}

func wallFake() *vkapitest.Fake {
	return &vkapitest.Fake{
		Groups: map[string][]vkapi.Group{"apiclub": {{ID: 1, ScreenName: "apiclub"}}},
		Wall: []vkapi.WallItem{
			{ID: 40, Date: ts(2023, 2, 3)},
			{ID: 30, Date: ts(2023, 1, 20)},
			{ID: 20, Date: ts(2023, 1, 10)},
			{ID: 10, Date: ts(2023, 1, 2)},
			{ID: 5, Date: ts(2022, 12, 1)},
		},
		Posts: map[int64]vkapi.WallPost{
			30: vkapitest.Post(-1, 30, "thirty", 3, 30, ts(2023, 1, 20)),
			10: vkapitest.Post(-1, 10, "ten", 1, 10, ts(2023, 1, 2)),
		},
		Comments: map[int64][]vkapi.CommentItem{
			30: {vkapitest.Comment(300, "nice", 1, ts(2023, 1, 21))},
		},
	}
}

func TestRunRangeKeepsGaps(t *testing.T) {
	f := wallFake()
	p := &countingProgress{}
	got, err := RunRange(context.Background(), f, januaryRequest(t), p)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []int64{30, 20, 10}, []int64{got[0].PostID, got[1].PostID, got[2].PostID})
	assert.True(t, got[0].Found)
	assert.False(t, got[1].Found)
	assert.Empty(t, got[1].Record)
	assert.Equal(t, int64(-1), got[1].OwnerID)
	assert.True(t, got[2].Found)

	var rec model.PostRecord
	require.NoError(t, json.Unmarshal([]byte(got[0].Record), &rec))
	assert.Equal(t, int64(30), rec.PostID)
	assert.Equal(t, int64(-1), rec.OwnerID)
	assert.Equal(t, "20-01-2023", rec.Date)
	require.Len(t, rec.Comments, 1)
	assert.Equal(t, int64(300), rec.Comments[0].CommentID)

	assert.Equal(t, 3, p.total)
	assert.Equal(t, 3, p.steps)
	assert.Equal(t, 1, p.finished)
}

func TestRunRangeMaxCap(t *testing.T) {
	f := wallFake()
	req := januaryRequest(t)
	req.Max = 2
	got, err := RunRange(context.Background(), f, req, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(30), got[0].PostID)
	assert.Equal(t, int64(20), got[1].PostID)
	assert.Equal(t, 2, f.CallCount(vkapi.MethodWallGetByID))
}

func TestRunRangeUnknownGroup(t *testing.T) {
	f := wallFake()
	req := januaryRequest(t)
	req.Domain = "nobody"
	got, err := RunRange(context.Background(), f, req, nil)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Nil(t, got)
	assert.Zero(t, f.CallCount(vkapi.MethodWallGet))
}

func TestRunRangeAbortsOnFailure(t *testing.T) {
	boom := &vkapi.APIError{Code: vkapi.CodeTooManyRequests, Message: "Too many requests per second"}
	f := wallFake()
	f.Errs = map[string]error{vkapi.MethodWallGetByID: boom}
	f.ErrOn = map[string]string{vkapi.MethodWallGetByID: "-1_10"}
	p := &countingProgress{}
	got, err := RunRange(context.Background(), f, januaryRequest(t), p)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, vkapi.IsCode(err, vkapi.CodeTooManyRequests))
	assert.Equal(t, 2, p.steps)
	assert.Equal(t, 1, p.finished)
}

func TestRunRangeEmptyWindow(t *testing.T) {
	f := wallFake()
	req := januaryRequest(t)
	w, err := model.ParseDateWindow("2021-01-01", "2021-01-31", time.UTC)
	require.NoError(t, err)
	req.Window = w
	got, err := RunRange(context.Background(), f, req, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, f.CallCount(vkapi.MethodWallGetByID))
}

func TestRunRangeResolveFailure(t *testing.T) {
	boom := errors.New("dial tcp: timeout")
	f := wallFake()
	f.Errs = map[string]error{vkapi.MethodGroupsGetByID: boom}
	_, err := RunRange(context.Background(), f, januaryRequest(t), nil)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrGroupNotFound)
}
