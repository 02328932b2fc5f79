package event

// ReplyTarget returns the id of the event that ev replies to.
//
// The last "e" tag marked "reply" wins. Senders that predate markers are
// handled by falling back to the last "e" tag of any kind. Tags too short to
// carry an id are skipped; an empty id is returned as-is. ok is false for
// thread roots.
func ReplyTarget(ev *Event) (id string, ok bool) {
	if ev == nil {
		return "", false
	}
	hasRef := false
	for _, t := range ev.Tags {
		if t.Name() == TagEvent {
			hasRef = true
			break
		}
	}
	if !hasRef {
		return "", false
	}

	for i := len(ev.Tags) - 1; i >= 0; i-- {
		t := ev.Tags[i]
		if t.Name() == TagEvent && len(t) > 1 && t.Marker() == MarkerReply {
			return t.Value(), true
		}
	}
	for i := len(ev.Tags) - 1; i >= 0; i-- {
		t := ev.Tags[i]
		if t.Name() == TagEvent && len(t) > 1 {
			return t.Value(), true
		}
	}
	return "", false
}
