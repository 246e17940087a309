package openai

import "context"

// Dispatch runs client.Complete on its own goroutine and delivers exactly
// one Result on the returned channel. The channel is buffered so the
// goroutine never leaks when the caller stops listening; cancel ctx to
// abandon the call.
func Dispatch(ctx context.Context, client IOpenAI, req *Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		text, err := client.Complete(ctx, req)
		out <- Result{Text: text, Err: err}
	}()
	return out
}
