package async

import "context"

// Worker is a long running loop. Run returns when ctx is cancelled and
// calls done on its way out so the caller can wait on a WaitGroup.
type Worker interface {
	Run(ctx context.Context, done func())
	Shutdown()
}
