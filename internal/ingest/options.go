package ingest

import "time"

// DefaultPageSize is the largest page wall.get and wall.getComments serve.
const DefaultPageSize = 100

// Options controls what a post fetch collects.
type Options struct {
	// PageSize is the wall.get page size; comment pages are fixed.
	PageSize       int
	IncludeViews   bool
	IncludeReposts bool
	// DateLayout formats the post date; Location is the zone it is rendered in.
	DateLayout string
	Location   *time.Location
}

// DefaultOptions mirrors the default config: views on, reposts off, DD-MM-YYYY dates.
func DefaultOptions() Options {
	return Options{
		PageSize:     DefaultPageSize,
		IncludeViews: true,
		DateLayout:   "02-01-2006",
		Location:     time.Local,
	}
}

func (o Options) formatDate(ts int64) string {
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	layout := o.DateLayout
	if layout == "" {
		layout = "02-01-2006"
	}
	return time.Unix(ts, 0).In(loc).Format(layout)
}
