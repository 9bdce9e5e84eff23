package analytics

import (
	"encoding/json"
	"fmt"

	"wallfetch/internal/model"
)

// Day holds the totals of one publication day.
type Day struct {
	Date     string
	Posts    int
	Comments int
	Replies  int
	Likes    int
}

// Summary aggregates the results of a range run.
type Summary struct {
	Posts    int
	Missing  int
	Comments int
	Replies  int
	// Days in first-seen order, newest first for a wall scan.
	Days []*Day
}

// Summarize decodes each found record and buckets it by its formatted post date.
func Summarize(results []model.Result) (Summary, error) {
	var s Summary
	byDate := make(map[string]*Day)
	for _, r := range results {
		if !r.Found {
			s.Missing++
			continue
		}
		var rec model.PostRecord
		if err := json.Unmarshal([]byte(r.Record), &rec); err != nil {
			return s, fmt.Errorf("post %d: %w", r.PostID, err)
		}
		d, ok := byDate[rec.Date]
		if !ok {
			d = &Day{Date: rec.Date}
			byDate[rec.Date] = d
			s.Days = append(s.Days, d)
		}
		s.Posts++
		d.Posts++
		d.Likes += rec.Likes
		for _, c := range rec.Comments {
			if c.ReplyTo != nil {
				s.Replies++
				d.Replies++
			} else {
				s.Comments++
				d.Comments++
			}
		}
	}
	return s, nil
}
