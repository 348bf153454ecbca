package document

import (
	"testing"
)

func stateWithVertices(n int) State {
	s := State{}
	for i := 0; i < n; i++ {
		s.Vertices = append(s.Vertices, Vertex{ID: 1})
	}
	return s
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()
	h.Push(Snapshot{State: stateWithVertices(0), Label: "initial"})

	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	restored, ok := h.Undo(Snapshot{State: stateWithVertices(1)})
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.State.Vertices) != 0 {
		t.Errorf("expected 0 vertices after undo, got %d", len(restored.State.Vertices))
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
	if !h.CanRedo() {
		t.Error("should be able to redo after undo")
	}
	if h.NextRedoLabel() != "initial" {
		t.Errorf("expected redo label 'initial', got %q", h.NextRedoLabel())
	}
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(Snapshot{State: stateWithVertices(0), Label: "first"})
	h.Push(Snapshot{State: stateWithVertices(1), Label: "second"})

	if h.NextUndoLabel() != "second" {
		t.Errorf("expected undo label 'second', got %q", h.NextUndoLabel())
	}

	current := Snapshot{State: stateWithVertices(2)}
	restored, ok := h.Undo(current)
	if !ok || len(restored.State.Vertices) != 1 {
		t.Fatalf("expected 1 vertex after first undo, got %d (ok=%v)", len(restored.State.Vertices), ok)
	}

	again, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(again.State.Vertices) != 2 {
		t.Errorf("expected 2 vertices after redo, got %d", len(again.State.Vertices))
	}
	if again.Label != "second" {
		t.Errorf("expected redo to report 'second', got %q", again.Label)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(Snapshot{Label: "a"})
	h.Undo(Snapshot{})
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	h.Push(Snapshot{Label: "b"})
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestMaxDepth(t *testing.T) {
	h := NewHistory()
	for i := 0; i < defaultMaxDepth+10; i++ {
		h.Push(Snapshot{Label: "step"})
	}
	if len(h.undoStack) != defaultMaxDepth {
		t.Errorf("expected undo stack capped at %d, got %d", defaultMaxDepth, len(h.undoStack))
	}
}

func TestEmptyUndoRedo(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Undo(Snapshot{}); ok {
		t.Error("undo on empty history should fail")
	}
	if _, ok := h.Redo(Snapshot{}); ok {
		t.Error("redo on empty history should fail")
	}
	h.Push(Snapshot{})
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("clear should empty both stacks")
	}
}
