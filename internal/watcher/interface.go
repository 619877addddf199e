package watcher

import "context"

// Watcher monitors the input directory and hands new video files to the
// submit handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// SubmitFunc receives the path of a newly arrived video file.
type SubmitFunc func(ctx context.Context, videoPath string) error
