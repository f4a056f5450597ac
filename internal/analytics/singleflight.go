package analytics

import "context"

// build collapses concurrent rebuilds of the same key into one loader call.
// A caller whose ctx ends stops waiting; the loader keeps running for the
// others.
func (s *Service) build(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	resultChan := s.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}
