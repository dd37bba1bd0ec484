package uploader

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbframes/pkg/facebook"
	"fbframes/pkg/frames"
	"fbframes/pkg/logger"
)

// fakeClient records every Graph API call the uploader makes
type fakeClient struct {
	publishCalls []publishCall
	stageCalls   []publishCall
	composeCalls [][]string

	publishErr error
	stageErr   map[string]error // keyed by file base name
	composeErr error

	nextRef int
}

type publishCall struct {
	path    string
	caption string
	albumID string
}

func (f *fakeClient) PublishPhoto(path, caption, albumID string) (*facebook.PhotoResponse, error) {
	f.publishCalls = append(f.publishCalls, publishCall{path, caption, albumID})
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &facebook.PhotoResponse{ID: "photo-1", PostID: "post-1"}, nil
}

func (f *fakeClient) StagePhoto(path, caption, albumID string) (string, error) {
	f.stageCalls = append(f.stageCalls, publishCall{path, caption, albumID})
	if err := f.stageErr[filepath.Base(path)]; err != nil {
		return "", err
	}
	f.nextRef++
	return fmt.Sprintf("ref-%d", f.nextRef), nil
}

func (f *fakeClient) CreateMultiPhotoPost(mediaIDs []string, message string) (string, error) {
	f.composeCalls = append(f.composeCalls, mediaIDs)
	if f.composeErr != nil {
		return "", f.composeErr
	}
	return "multi-post-1", nil
}

// recordingObserver collects every event for assertions
type recordingObserver struct {
	frames    []Result
	batches   []BatchResult
	summaries []Summary
}

func (o *recordingObserver) FrameDone(r Result)      { o.frames = append(o.frames, r) }
func (o *recordingObserver) BatchDone(b BatchResult) { o.batches = append(o.batches, b) }
func (o *recordingObserver) RunDone(s Summary)       { o.summaries = append(o.summaries, s) }

// writeFrames creates real frame files and returns a resolver over them.
// Numbers listed in missing are skipped.
func writeFrames(t *testing.T, start, count int, missing ...int) *frames.Resolver {
	t.Helper()
	dir := t.TempDir()
	resolver := frames.NewResolver(dir, "frame_", 4, "jpg")

	skip := make(map[int]bool)
	for _, n := range missing {
		skip[n] = true
	}

	for n := start; n < start+count; n++ {
		if skip[n] {
			continue
		}
		require.NoError(t, os.WriteFile(resolver.Path(n), []byte("jpeg"), 0644))
	}
	return resolver
}

func newTestUploader(t *testing.T, client *fakeClient, resolver *frames.Resolver, cfg Config) *Uploader {
	t.Helper()
	if cfg.CaptionTemplate == "" {
		cfg.CaptionTemplate = "Frame {num}"
	}
	up, err := New(client, resolver, cfg, logger.NewTestLogger())
	require.NoError(t, err)
	return up
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid single", Config{Start: 100, Count: 5}, false},
		{"valid multi", Config{Start: 100, Count: 5, MultiPhoto: 3}, false},
		{"multi at ceiling", Config{Start: 0, Count: 1, MultiPhoto: 4}, false},
		{"negative start", Config{Start: -1, Count: 5}, true},
		{"zero count", Config{Start: 100, Count: 0}, true},
		{"multi above ceiling", Config{Start: 100, Count: 5, MultiPhoto: 5}, true},
		{"negative delay", Config{Start: 100, Count: 5, Delay: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBatchSize(t *testing.T) {
	assert.Equal(t, 1, (&Config{}).batchSize())
	assert.Equal(t, 1, (&Config{MultiPhoto: 1}).batchSize())
	assert.Equal(t, 3, (&Config{MultiPhoto: 3}).batchSize())
}

func TestRunSinglePhotoSequence(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 5)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 5})

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 5, summary.FramesAttempted)
	assert.Equal(t, 5, summary.FramesSucceeded)
	assert.Equal(t, 0, summary.FramesFailed)
	assert.Equal(t, 5, summary.PostsCreated)
	assert.True(t, summary.Clean())

	require.Len(t, client.publishCalls, 5)
	assert.Empty(t, client.stageCalls)
	assert.Empty(t, client.composeCalls)

	// Frames go up strictly in order
	assert.Equal(t, resolver.Path(100), client.publishCalls[0].path)
	assert.Equal(t, resolver.Path(104), client.publishCalls[4].path)
	assert.Equal(t, "Frame 0100", client.publishCalls[0].caption)
}

func TestRunMultiPhotoBatches(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 5)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 5, MultiPhoto: 3})

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 5, summary.FramesSucceeded)
	assert.Equal(t, 2, summary.PostsCreated)
	assert.True(t, summary.Clean())

	// 5 frames at size 3 means batches of 3 and 2, both composed
	require.Len(t, client.stageCalls, 5)
	require.Len(t, client.composeCalls, 2)
	assert.Len(t, client.composeCalls[0], 3)
	assert.Len(t, client.composeCalls[1], 2)
	assert.Empty(t, client.publishCalls)
}

func TestRunTrailingSingleFrameUsesPublish(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 7)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 7, MultiPhoto: 3})

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 3, summary.PostsCreated)

	// Batches of 3, 3 and a trailing 1; the straggler is published directly
	assert.Len(t, client.stageCalls, 6)
	assert.Len(t, client.composeCalls, 2)
	require.Len(t, client.publishCalls, 1)
	assert.Equal(t, resolver.Path(106), client.publishCalls[0].path)
}

func TestRunMissingFrameContinues(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 3, 101)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 3})

	observer := &recordingObserver{}
	up.AddObserver(observer)

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 3, summary.FramesAttempted)
	assert.Equal(t, 2, summary.FramesSucceeded)
	assert.Equal(t, 1, summary.FramesFailed)
	assert.False(t, summary.Clean())

	// The missing frame never reaches the network
	assert.Len(t, client.publishCalls, 2)

	require.Len(t, observer.frames, 3)
	assert.True(t, observer.frames[0].OK())
	assert.False(t, observer.frames[1].OK())
	assert.True(t, observer.frames[2].OK())
}

func TestRunMultiPhotoSkipsMissingFrame(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 3, 101)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 3, MultiPhoto: 3})

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 2, summary.FramesSucceeded)
	assert.Equal(t, 1, summary.FramesFailed)
	assert.Equal(t, 1, summary.PostsCreated)

	// The batch composes from the two references that were staged
	assert.Len(t, client.stageCalls, 2)
	require.Len(t, client.composeCalls, 1)
	assert.Len(t, client.composeCalls[0], 2)
}

func TestRunMultiPhotoNothingStagedSkipsCompose(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 3, 100, 101, 102)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 3, MultiPhoto: 3})

	observer := &recordingObserver{}
	up.AddObserver(observer)

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 3, summary.FramesFailed)
	assert.Equal(t, 1, summary.BatchesFailed)
	assert.Equal(t, 0, summary.PostsCreated)
	assert.False(t, summary.Clean())

	assert.Empty(t, client.composeCalls)
	require.Len(t, observer.batches, 1)
	assert.False(t, observer.batches[0].OK())
}

func TestRunComposeFailure(t *testing.T) {
	client := &fakeClient{composeErr: fmt.Errorf("compose failed")}
	resolver := writeFrames(t, 100, 3)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 3, MultiPhoto: 3})

	summary, err := up.Run()

	require.NoError(t, err)
	// The frames themselves staged fine; only the batch failed
	assert.Equal(t, 3, summary.FramesSucceeded)
	assert.Equal(t, 0, summary.FramesFailed)
	assert.Equal(t, 1, summary.BatchesFailed)
	assert.Equal(t, 0, summary.PostsCreated)
	assert.False(t, summary.Clean())
}

func TestRunStageFailureContinues(t *testing.T) {
	client := &fakeClient{stageErr: map[string]error{
		"frame_0101.jpg": fmt.Errorf("boom"),
	}}
	resolver := writeFrames(t, 100, 3)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 3, MultiPhoto: 3})

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 2, summary.FramesSucceeded)
	assert.Equal(t, 1, summary.FramesFailed)
	assert.Equal(t, 1, summary.PostsCreated)

	// All three frames were attempted; the compose used the two refs
	assert.Len(t, client.stageCalls, 3)
	require.Len(t, client.composeCalls, 1)
	assert.Len(t, client.composeCalls[0], 2)
}

func TestRunDryRunMakesNoCalls(t *testing.T) {
	tests := []struct {
		name       string
		multiPhoto int
		wantPosts  int
	}{
		{"single photo", 0, 5},
		{"multi photo", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			// Frames deliberately absent: a dry run never checks the disk
			resolver := frames.NewResolver(t.TempDir(), "frame_", 4, "jpg")
			up := newTestUploader(t, client, resolver, Config{
				Start: 100, Count: 5, MultiPhoto: tt.multiPhoto, DryRun: true,
			})

			summary, err := up.Run()

			require.NoError(t, err)
			assert.Equal(t, 5, summary.FramesSucceeded)
			assert.Equal(t, 0, summary.FramesFailed)
			assert.Equal(t, tt.wantPosts, summary.PostsCreated)
			assert.True(t, summary.Clean())

			assert.Empty(t, client.publishCalls)
			assert.Empty(t, client.stageCalls)
			assert.Empty(t, client.composeCalls)
		})
	}
}

func TestRunPublishFailureContinues(t *testing.T) {
	client := &fakeClient{publishErr: fmt.Errorf("server exploded")}
	resolver := writeFrames(t, 100, 3)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 3})

	summary, err := up.Run()

	require.NoError(t, err)
	assert.Equal(t, 3, summary.FramesAttempted)
	assert.Equal(t, 3, summary.FramesFailed)
	assert.Equal(t, 0, summary.PostsCreated)

	// Every frame is still attempted; there is no retry and no abort
	assert.Len(t, client.publishCalls, 3)
}

func TestRunCaptionTemplate(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 7, 1)
	up := newTestUploader(t, client, resolver, Config{
		Start: 7, Count: 1,
		CaptionTemplate: "Night of the Hunter - frame {num}",
	})

	_, err := up.Run()

	require.NoError(t, err)
	require.Len(t, client.publishCalls, 1)
	assert.Equal(t, "Night of the Hunter - frame 0007", client.publishCalls[0].caption)
}

func TestRunBatchCaptionUsesRange(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 3)
	up := newTestUploader(t, client, resolver, Config{
		Start: 100, Count: 3, MultiPhoto: 3,
		CaptionTemplate: "Frames {num}",
	})

	observer := &recordingObserver{}
	up.AddObserver(observer)

	_, err := up.Run()

	require.NoError(t, err)
	require.Len(t, observer.batches, 1)
	assert.Equal(t, "0100-0102", observer.batches[0].Range)
}

func TestRunAlbumIDPassedThrough(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 1)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 1, AlbumID: "424242"})

	_, err := up.Run()

	require.NoError(t, err)
	require.Len(t, client.publishCalls, 1)
	assert.Equal(t, "424242", client.publishCalls[0].albumID)
}

func TestRunRemoveUploaded(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 2)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 2, RemoveUploaded: true})

	_, err := up.Run()

	require.NoError(t, err)
	for n := 100; n <= 101; n++ {
		_, statErr := os.Stat(resolver.Path(n))
		assert.True(t, os.IsNotExist(statErr), "frame %d should be deleted after upload", n)
	}
}

func TestRunObserverSummaryMatchesReturn(t *testing.T) {
	client := &fakeClient{}
	resolver := writeFrames(t, 100, 4)
	up := newTestUploader(t, client, resolver, Config{Start: 100, Count: 4, MultiPhoto: 2})

	observer := &recordingObserver{}
	up.AddObserver(observer)

	summary, err := up.Run()

	require.NoError(t, err)
	require.Len(t, observer.summaries, 1)
	assert.Equal(t, *summary, observer.summaries[0])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	resolver := frames.NewResolver(t.TempDir(), "frame_", 4, "jpg")

	_, err := New(&fakeClient{}, resolver, Config{Start: -1, Count: 5}, logger.NewTestLogger())

	assert.Error(t, err)
}
