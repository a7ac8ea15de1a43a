package main

// Snapshot is one history entry: the element content and the selection of a
// scene at some point. Snapshots never reference live scene slices.
type Snapshot struct {
	Elements []Element
	Selected []string
}

// History keeps Past with the most recent entry last and Future with the
// next redo first. Limit caps Past; zero keeps every entry.
type History struct {
	Past   []Snapshot
	Future []Snapshot
	Limit  int
}

func snapshot(s Scene) Snapshot {
	snap := Snapshot{
		Elements: make([]Element, len(s.Elements)),
		Selected: append([]string(nil), s.Selected...),
	}
	for i, el := range s.Elements {
		snap.Elements[i] = el.Clone()
	}
	return snap
}

// restore puts a copy of snap's content into s, keeping the viewport and the
// canvas bounds of s.
func (snap Snapshot) restore(s Scene) Scene {
	restored := snapshot(Scene{Elements: snap.Elements, Selected: snap.Selected})
	s.Elements = restored.Elements
	s.Selected = restored.Selected
	return s
}

// push appends entry to Past and drops Future.
func (h History) push(entry Snapshot) History {
	past := append(h.Past[:len(h.Past):len(h.Past)], entry)
	if h.Limit > 0 && len(past) > h.Limit {
		past = past[len(past)-h.Limit:]
	}
	return History{Past: past, Limit: h.Limit}
}

func undo(st State) State {
	n := len(st.History.Past)
	if n == 0 {
		return st
	}
	prev := st.History.Past[n-1]
	future := make([]Snapshot, 0, len(st.History.Future)+1)
	future = append(future, snapshot(st.Scene))
	future = append(future, st.History.Future...)

	st.Scene = prev.restore(st.Scene)
	st.History = History{
		Past:   st.History.Past[:n-1:n-1],
		Future: future,
		Limit:  st.History.Limit,
	}
	return st
}

func redo(st State) State {
	if len(st.History.Future) == 0 {
		return st
	}
	next := st.History.Future[0]
	past := append(st.History.Past[:len(st.History.Past):len(st.History.Past)], snapshot(st.Scene))
	if limit := st.History.Limit; limit > 0 && len(past) > limit {
		past = past[len(past)-limit:]
	}

	st.Scene = next.restore(st.Scene)
	st.History = History{
		Past:   past,
		Future: st.History.Future[1:],
		Limit:  st.History.Limit,
	}
	return st
}

func (h History) CanUndo() bool { return len(h.Past) > 0 }
func (h History) CanRedo() bool { return len(h.Future) > 0 }
