package main

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// barProgress draws the per-post loop of a range run.
type barProgress struct {
	w    io.Writer
	desc string
	bar  *progressbar.ProgressBar
}

func newBarProgress(w io.Writer, desc string) *barProgress {
	return &barProgress{w: w, desc: desc}
}

func (p *barProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(p.desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *barProgress) Step() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *barProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
