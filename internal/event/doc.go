// Package event is the message bus that ties the display together.
//
// Producers (the Lua host, the config watcher, the window) publish events on
// colon-separated topics; consumers such as the notification store subscribe
// by pattern. Delivery is synchronous: Publish runs every matching handler on
// the calling goroutine, in priority order, before it returns. Callers off the
// UI goroutine must hop onto it before publishing.
//
// # Topics
//
//	notification:error     - an error notification
//	notification:info      - an info notification
//	renderer:atlas:font    - the font atlas was rebuilt
//	config:reloaded        - the configuration file was re-read
//
// Subscriptions may use wildcards:
//
//	notification:*   - one segment
//	renderer:**      - any number of segments
//
// # Usage
//
//	bus := event.NewBus(event.WithBusPanicHandler(logPanic))
//	_ = bus.Start()
//
//	sub, _ := event.SubscribePayload(bus, "notification:*",
//	    func(ctx context.Context, t topic.Topic, p events.NotificationPayload) error {
//	        ...
//	    })
//	defer bus.Unsubscribe(sub)
//
//	pub := event.NewPublisher(bus, "lua")
//	_ = event.PublishEvent(ctx, pub, "notification:info", payload)
//
// Handler panics are recovered by the dispatch package and reported to the
// bus panic handler; one bad handler never stops delivery to the others.
package event
