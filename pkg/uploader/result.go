package uploader

import "fbframes/pkg/frames"

// Action identifies what was attempted for a frame or batch
type Action string

const (
	ActionPublish Action = "publish"
	ActionStage   Action = "stage"
	ActionCompose Action = "compose"
	ActionDryRun  Action = "dry-run"
)

// Result is the outcome of one per-frame operation. A nil Err with a set
// MediaID distinguishes a staged reference from "no reference", so callers
// never have to treat an empty string as meaningful.
type Result struct {
	Frame   frames.Frame
	Num     string // zero-padded frame label
	Action  Action
	MediaID string
	Err     error
}

// OK reports whether the operation succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// BatchResult is the outcome of one multi-photo batch
type BatchResult struct {
	Range    string // e.g. "0100-0102"
	Size     int
	MediaIDs []string
	PostID   string
	DryRun   bool
	Err      error
}

// OK reports whether the batch produced a post (or would have, in dry-run)
func (b BatchResult) OK() bool {
	return b.Err == nil
}

// Summary totals one run. FramesFailed and BatchesFailed drive the exit code.
type Summary struct {
	FramesAttempted int
	FramesSucceeded int
	FramesFailed    int
	PostsCreated    int
	BatchesFailed   int
}

// Clean reports whether every frame and batch succeeded
func (s Summary) Clean() bool {
	return s.FramesFailed == 0 && s.BatchesFailed == 0
}

// Observer receives per-frame and per-batch outcomes as the run progresses.
// Progress display and the run log hang off this interface instead of being
// wired into the upload logic.
type Observer interface {
	FrameDone(Result)
	BatchDone(BatchResult)
	RunDone(Summary)
}
