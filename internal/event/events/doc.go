// Package events defines the topics and payloads published on the cellgl
// event bus.
//
// Topics are colon-separated and grouped by the publishing side:
//
//	notification:<kind>   - a notification to show (error, warning, info, success)
//	renderer:...          - color atlas rebuilds and grid resizes
//	config:...            - configuration reloads
//	plugin:...            - Lua script lifecycle
//
// Payloads are plain structs; publish them wrapped in event.NewEvent:
//
//	evt := event.NewEvent(events.TopicNotificationError,
//	    events.NotificationPayload{Title: "Build failed", Message: "exit status 2"},
//	    "lua",
//	)
//	_ = bus.Publish(ctx, evt)
package events
