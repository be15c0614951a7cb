package correios

// Future is the pending result of an asynchronous fetch.
type Future struct {
	done chan struct{}
	resp *TrackingResponse
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve must be called exactly once.
func (f *Future) resolve(resp *TrackingResponse, err error) {
	f.resp = resp
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the fetch completes and returns its result.
// It may be called any number of times from any goroutine.
func (f *Future) Wait() (*TrackingResponse, error) {
	<-f.done
	return f.resp, f.err
}
