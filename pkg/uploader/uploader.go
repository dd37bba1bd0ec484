// Package uploader orchestrates one upload run: it walks the frame
// sequence in order, groups frames into batches, and drives the Graph API
// client down either the single-publish path or the stage-then-compose
// path. Execution is strictly sequential with one request in flight at a
// time; failures are recorded and the run moves on.
package uploader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fbframes/pkg/facebook"
	"fbframes/pkg/frames"
	"fbframes/pkg/logger"
)

// PhotoClient is the slice of the Graph API client the uploader needs
type PhotoClient interface {
	PublishPhoto(path, caption, albumID string) (*facebook.PhotoResponse, error)
	StagePhoto(path, caption, albumID string) (string, error)
	CreateMultiPhotoPost(mediaIDs []string, message string) (string, error)
}

// Config holds the parameters of one run
type Config struct {
	Start           int
	Count           int
	MultiPhoto      int // 0 = disabled (batch size 1), otherwise 1..4
	AlbumID         string
	DryRun          bool
	RemoveUploaded  bool
	Delay           time.Duration
	CaptionTemplate string
}

// Validate rejects invalid run parameters before any network activity
func (c *Config) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("start frame must be >= 0, got %d", c.Start)
	}
	if c.Count <= 0 {
		return fmt.Errorf("frame count must be > 0, got %d", c.Count)
	}
	if c.MultiPhoto < 0 || c.MultiPhoto > facebook.MaxPhotosPerPost {
		return fmt.Errorf("multi-photo value must be between 1 and %d, got %d", facebook.MaxPhotosPerPost, c.MultiPhoto)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	return nil
}

// batchSize returns the effective batch size for the run
func (c *Config) batchSize() int {
	if c.MultiPhoto >= 2 {
		return c.MultiPhoto
	}
	return 1
}

// Uploader drives one upload run
type Uploader struct {
	client    PhotoClient
	resolver  *frames.Resolver
	cfg       Config
	logger    logger.Logger
	observers []Observer

	paced bool // set once the first remote call has happened
}

// New creates an Uploader. The configuration is validated here so a bad
// run never reaches the network.
func New(client PhotoClient, resolver *frames.Resolver, cfg Config, log logger.Logger) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Uploader{
		client:   client,
		resolver: resolver,
		cfg:      cfg,
		logger:   log,
	}, nil
}

// AddObserver registers an observer for frame and batch outcomes
func (u *Uploader) AddObserver(o Observer) {
	u.observers = append(u.observers, o)
}

// Run processes the whole frame sequence and returns the run summary.
// The returned error covers only setup problems; per-frame and per-batch
// failures are reported through the summary and observers.
func (u *Uploader) Run() (*Summary, error) {
	sequence, err := u.resolver.Resolve(u.cfg.Start, u.cfg.Count)
	if err != nil {
		return nil, err
	}

	u.logger.InfoWithFields("starting upload run", map[string]interface{}{
		"start":       u.cfg.Start,
		"count":       u.cfg.Count,
		"multi_photo": u.cfg.MultiPhoto,
		"album":       u.cfg.AlbumID,
		"dry_run":     u.cfg.DryRun,
	})

	summary := &Summary{}
	size := u.cfg.batchSize()

	for i := 0; i < len(sequence); i += size {
		end := i + size
		if end > len(sequence) {
			end = len(sequence)
		}
		batch := sequence[i:end]

		// A trailing batch of one frame takes the single-publish path
		if len(batch) == 1 {
			u.runSingle(batch[0], summary)
		} else {
			u.runMulti(batch, summary)
		}
	}

	u.logger.InfoWithFields("upload run finished", map[string]interface{}{
		"attempted": summary.FramesAttempted,
		"succeeded": summary.FramesSucceeded,
		"failed":    summary.FramesFailed,
		"posts":     summary.PostsCreated,
	})

	for _, o := range u.observers {
		o.RunDone(*summary)
	}

	return summary, nil
}

// runSingle publishes one frame as its own post
func (u *Uploader) runSingle(f frames.Frame, summary *Summary) {
	summary.FramesAttempted++
	num := f.Padded(u.resolver.PadWidth)
	caption := u.caption(num)

	if u.cfg.DryRun {
		u.logger.InfoWithFields("dry run: would publish frame", map[string]interface{}{"frame": num})
		summary.FramesSucceeded++
		summary.PostsCreated++
		u.frameDone(Result{Frame: f, Num: num, Action: ActionDryRun})
		return
	}

	if !f.Exists() {
		err := fmt.Errorf("frame file not found: %s", f.Path)
		u.logger.WarnWithFields("skipping missing frame", map[string]interface{}{"frame": num, "path": f.Path})
		summary.FramesFailed++
		u.frameDone(Result{Frame: f, Num: num, Action: ActionPublish, Err: err})
		return
	}

	u.pause()
	resp, err := u.client.PublishPhoto(f.Path, caption, u.cfg.AlbumID)
	if err != nil {
		u.logger.WithError(err).WithField("frame", num).Error("failed to publish frame")
		summary.FramesFailed++
		u.frameDone(Result{Frame: f, Num: num, Action: ActionPublish, Err: err})
		return
	}

	u.logger.InfoWithFields("frame published", map[string]interface{}{
		"frame": num,
		"post":  resp.PostID,
	})
	summary.FramesSucceeded++
	summary.PostsCreated++
	u.frameDone(Result{Frame: f, Num: num, Action: ActionPublish, MediaID: resp.ID})
	u.removeIfConfigured(f, num)
}

// runMulti stages each frame in the batch, then composes one post from the
// references that were obtained. Frames that fail to stage are skipped; if
// none staged, the compose call is skipped and the batch marked failed.
func (u *Uploader) runMulti(batch []frames.Frame, summary *Summary) {
	width := u.resolver.PadWidth
	batchRange := fmt.Sprintf("%s-%s", batch[0].Padded(width), batch[len(batch)-1].Padded(width))

	if u.cfg.DryRun {
		for _, f := range batch {
			num := f.Padded(width)
			summary.FramesAttempted++
			summary.FramesSucceeded++
			u.logger.InfoWithFields("dry run: would stage frame", map[string]interface{}{"frame": num})
			u.frameDone(Result{Frame: f, Num: num, Action: ActionDryRun})
		}
		u.logger.InfoWithFields("dry run: would compose post", map[string]interface{}{"range": batchRange})
		summary.PostsCreated++
		u.batchDone(BatchResult{Range: batchRange, Size: len(batch), DryRun: true})
		return
	}

	var refs []string
	var staged []frames.Frame
	for _, f := range batch {
		summary.FramesAttempted++
		num := f.Padded(width)

		if !f.Exists() {
			err := fmt.Errorf("frame file not found: %s", f.Path)
			u.logger.WarnWithFields("skipping missing frame", map[string]interface{}{"frame": num, "path": f.Path})
			summary.FramesFailed++
			u.frameDone(Result{Frame: f, Num: num, Action: ActionStage, Err: err})
			continue
		}

		u.pause()
		ref, err := u.client.StagePhoto(f.Path, u.caption(num), u.cfg.AlbumID)
		if err != nil {
			u.logger.WithError(err).WithField("frame", num).Error("failed to stage frame")
			summary.FramesFailed++
			u.frameDone(Result{Frame: f, Num: num, Action: ActionStage, Err: err})
			continue
		}

		u.logger.DebugWithFields("frame staged", map[string]interface{}{"frame": num, "media_ref": ref})
		refs = append(refs, ref)
		staged = append(staged, f)
		summary.FramesSucceeded++
		u.frameDone(Result{Frame: f, Num: num, Action: ActionStage, MediaID: ref})
	}

	if len(refs) == 0 {
		err := fmt.Errorf("no frames staged for batch %s", batchRange)
		u.logger.WithField("range", batchRange).Error("batch failed: nothing to compose")
		summary.BatchesFailed++
		u.batchDone(BatchResult{Range: batchRange, Size: len(batch), Err: err})
		return
	}

	postID, err := u.client.CreateMultiPhotoPost(refs, u.caption(batchRange))
	if err != nil {
		u.logger.WithError(err).WithField("range", batchRange).Error("failed to compose multi-photo post")
		summary.BatchesFailed++
		u.batchDone(BatchResult{Range: batchRange, Size: len(batch), MediaIDs: refs, Err: err})
		return
	}

	u.logger.InfoWithFields("multi-photo post created", map[string]interface{}{
		"range":  batchRange,
		"post":   postID,
		"photos": len(refs),
	})
	summary.PostsCreated++
	u.batchDone(BatchResult{Range: batchRange, Size: len(batch), MediaIDs: refs, PostID: postID})

	for _, f := range staged {
		u.removeIfConfigured(f, f.Padded(width))
	}
}

// caption renders the caption template with the frame number or batch range
func (u *Uploader) caption(num string) string {
	return strings.ReplaceAll(u.cfg.CaptionTemplate, "{num}", num)
}

// pause applies the configured inter-upload delay. The first remote call of
// a run is never delayed.
func (u *Uploader) pause() {
	if !u.paced {
		u.paced = true
		return
	}
	if u.cfg.Delay > 0 {
		time.Sleep(u.cfg.Delay)
	}
}

// removeIfConfigured deletes a frame file after a successful upload
func (u *Uploader) removeIfConfigured(f frames.Frame, num string) {
	if !u.cfg.RemoveUploaded {
		return
	}
	if err := os.Remove(f.Path); err != nil {
		u.logger.WithError(err).WithField("frame", num).Warn("failed to remove uploaded frame")
	}
}

func (u *Uploader) frameDone(r Result) {
	for _, o := range u.observers {
		o.FrameDone(r)
	}
}

func (u *Uploader) batchDone(b BatchResult) {
	for _, o := range u.observers {
		o.BatchDone(b)
	}
}
