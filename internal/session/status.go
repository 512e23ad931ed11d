package session

// Status describes the image set and the selected image's history.
type Status struct {
	Loaded    bool   `json:"loaded"`
	Index     int    `json:"index"`
	Count     int    `json:"count"`
	Path      string `json:"path,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	CanUndo   bool   `json:"can_undo"`
	CanRedo   bool   `json:"can_redo"`
	UndoDepth int    `json:"undo_depth"`
	RedoDepth int    `json:"redo_depth"`
}

// Status reports the current state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) status() Status {
	if len(s.slots) == 0 {
		return Status{}
	}
	sl := s.slots[s.index]
	b := sl.image.Bounds()
	return Status{
		Loaded:    true,
		Index:     s.index,
		Count:     len(s.slots),
		Path:      sl.path,
		Width:     b.Dx(),
		Height:    b.Dy(),
		CanUndo:   sl.history.CanUndo(),
		CanRedo:   sl.history.CanRedo(),
		UndoDepth: sl.history.UndoDepth(),
		RedoDepth: sl.history.RedoDepth(),
	}
}
