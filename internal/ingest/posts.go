package ingest

import (
	"context"
	"iter"

	"wallfetch/internal/logging"
	"wallfetch/internal/model"
	"wallfetch/internal/vkapi"
)

// PostIDs pages through a wall and yields the ids of posts dated inside
// win, newest first. Posts newer than the window are skipped; the first
// post older than the window ends the sequence. The wall is assumed to be
// ordered by date descending. Ranging the sequence again re-reads the wall.
func PostIDs(ctx context.Context, api vkapi.WallAPI, domain string, win model.DateWindow, pageSize int) iter.Seq2[int64, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return func(yield func(int64, error) bool) {
		for offset := 0; ; offset += pageSize {
			items, err := api.WallGet(ctx, domain, pageSize, offset)
			if err != nil {
				yield(0, err)
				return
			}
			if len(items) == 0 {
				return
			}
			for _, it := range items {
				if win.Newer(it.Date) {
					continue
				}
				if win.Older(it.Date) {
					if it.IsPinned == 1 {
						log := logging.From(ctx)
						log.Warn().Int64("post_id", it.ID).Str("domain", domain).Msg("pinned post older than window ends scan")
					}
					return
				}
				if !yield(it.ID, nil) {
					return
				}
			}
		}
	}
}

// CollectPostIDs drains PostIDs. A positive max caps the result and stops
// paging once reached.
func CollectPostIDs(ctx context.Context, api vkapi.WallAPI, domain string, win model.DateWindow, pageSize, max int) ([]int64, error) {
	var ids []int64
	for id, err := range PostIDs(ctx, api, domain, win, pageSize) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		if max > 0 && len(ids) >= max {
			break
		}
	}
	return ids, nil
}
