// Package dispatch runs event handlers on the caller's goroutine with panic
// recovery, context checks and timing.
//
// The UI is single-threaded, so delivery is always synchronous: a publish
// returns after every matching handler has run.
//
//	d := dispatch.NewSyncDispatcher(
//	    dispatch.WithPanicHandler(func(event any, v any, stack []byte) {
//	        logger.Error("handler panic: %v\n%s", v, stack)
//	    }),
//	)
//	result := d.Dispatch(ctx, event, handler)
//	if !result.IsSuccess() {
//	    ...
//	}
package dispatch
