package entity

type DownloadStatus string

const (
	StatusDownloaded DownloadStatus = "downloaded"
	StatusFailed     DownloadStatus = "failed"
)

// DownloadResult is the outcome of one download attempt.
type DownloadResult struct {
	Link   *Link
	Size   int64
	Status DownloadStatus
	Err    error
}

func (r *DownloadResult) OK() bool {
	return r.Status == StatusDownloaded
}
