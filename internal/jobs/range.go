package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallfetch/internal/ingest"
	"wallfetch/internal/logging"
	"wallfetch/internal/metrics"
	"wallfetch/internal/model"
	"wallfetch/internal/vkapi"
)

// ErrGroupNotFound is returned when a handle resolves to no community.
var ErrGroupNotFound = errors.New("group not found")

// Request describes one range run.
type Request struct {
	Domain  string
	Window  model.DateWindow
	Max     int
	Options ingest.Options
}

// Progress observes the per-post loop of a run.
type Progress interface {
	Start(total int)
	Step()
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int) {}
func (nopProgress) Step()     {}
func (nopProgress) Finish()   {}

// RunRange resolves the wall owner, lists posts in the window and builds a
// record for each, in wall order. Posts that cannot be fetched stay in the
// result with Found=false. Any API failure aborts the run.
func RunRange(ctx context.Context, api vkapi.WallAPI, req Request, progress Progress) ([]model.Result, error) {
	if progress == nil {
		progress = nopProgress{}
	}
	log := logging.From(ctx).With().Str("domain", req.Domain).Logger()
	start := time.Now()
	metrics.Runs.Inc()
	results, err := runRange(logging.Into(ctx, log), api, req, progress)
	if err != nil {
		metrics.RunErrors.Inc()
		log.Error().Err(err).Msg("range run aborted")
		return nil, err
	}
	metrics.ObserveRunDuration(start)
	missing := 0
	for _, r := range results {
		if !r.Found {
			missing++
		}
	}
	log.Info().
		Int("posts", len(results)).
		Int("missing", missing).
		Dur("took", time.Since(start)).
		Msg("range run done")
	return results, nil
}

func runRange(ctx context.Context, api vkapi.WallAPI, req Request, progress Progress) ([]model.Result, error) {
	log := logging.From(ctx)
	owner, found, err := ingest.ResolveOwner(ctx, api, req.Domain)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", req.Domain, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, req.Domain)
	}
	ids, err := ingest.CollectPostIDs(ctx, api, req.Domain, req.Window, req.Options.PageSize, req.Max)
	if err != nil {
		return nil, fmt.Errorf("list posts of %s: %w", req.Domain, err)
	}
	log.Info().Int64("owner_id", owner).Int("posts", len(ids)).Msg("posts in window")

	progress.Start(len(ids))
	defer progress.Finish()
	results := make([]model.Result, 0, len(ids))
	for _, id := range ids {
		res, err := buildResult(ctx, api, owner, id, req.Options)
		if err != nil {
			return nil, fmt.Errorf("post %d_%d: %w", owner, id, err)
		}
		results = append(results, res)
		progress.Step()
	}
	return results, nil
}

func buildResult(ctx context.Context, api vkapi.WallAPI, owner, id int64, opts ingest.Options) (model.Result, error) {
	log := logging.From(ctx)
	res := model.Result{PostID: id, OwnerID: owner}
	rec, err := ingest.BuildPostRecord(ctx, api, owner, id, opts)
	if err != nil {
		return res, err
	}
	if rec == nil {
		metrics.IncPost("missing")
		log.Debug().Int64("post_id", id).Msg("post unavailable")
		return res, nil
	}
	s, err := ingest.EncodeRecord(*rec)
	if err != nil {
		return res, err
	}
	metrics.IncPost("fetched")
	metrics.Comments.Add(float64(len(rec.Comments)))
	log.Debug().Int64("post_id", id).Int("comments", len(rec.Comments)).Msg("post fetched")
	res.Record = s
	res.Found = true
	return res, nil
}
