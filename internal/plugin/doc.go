// Package plugin hosts user Lua scripts. Scripts see a global table named
// cellgl:
//
//	cellgl.notify(kind, title, message)
//	cellgl.error(title, message)
//	cellgl.warning(title, message)
//	cellgl.info(title, message)
//	cellgl.success(title, message)
//	cellgl.log(msg)
//
// kind is one of "error", "warning", "info" or "success". message is a
// string or a sequence of strings, one per line. Notifications are
// published on the event bus under the notification topics.
package plugin
