// Package notification holds the list of transient messages shown to the
// user.
//
// The list is ordered by arrival and changes only through two pure
// operations: Notify appends and Dismiss removes one entry by index. A
// Store keeps the current list for the UI goroutine and tells listeners
// when it changes.
//
// Notifications arrive on the event bus under four topics, one per kind:
//
//	notification:error
//	notification:warning
//	notification:info
//	notification:success
//
// Each carries an events.NotificationPayload. Subscribe turns those events
// into Notification values; Publish and the per-kind helpers produce them.
package notification
