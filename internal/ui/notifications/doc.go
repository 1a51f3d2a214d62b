// Package notifications draws the notification list as a stack of boxes in
// the top-right corner of a cell backend and turns clicks and keys into
// dismissals.
//
// Each box has a header row with the title and a close button, followed by
// the message: a single-string message is wrapped to the box width, a
// multi-line message gets one row per line. Boxes appear in list order,
// oldest at the top.
package notifications
