package notification

// Notify returns a new list with n appended. list is not modified.
func Notify(list []Notification, n Notification) []Notification {
	out := make([]Notification, len(list), len(list)+1)
	copy(out, list)
	return append(out, n)
}

// Dismiss returns a new list without the entry at ix, keeping the order of
// the rest. An out-of-range index returns an unchanged copy. list is not
// modified.
func Dismiss(list []Notification, ix int) []Notification {
	out := make([]Notification, 0, len(list))
	for i, n := range list {
		if i != ix {
			out = append(out, n)
		}
	}
	return out
}
