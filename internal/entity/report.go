package entity

import "time"

// Report summarizes one run.
type Report struct {
	RunID      string
	SourceURL  string
	StartedAt  time.Time
	FinishedAt time.Time
	Links      []string
	Results    []*DownloadResult
	Archive    *Archive
}

func (r *Report) Downloaded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}

	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Downloaded()
}
