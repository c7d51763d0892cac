package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stackprov/pkg/batch"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

func testRecord(name, license string) *provenance.ProvenanceRecord {
	rec := &provenance.ProvenanceRecord{
		Identity: provenance.PackageIdentity{Ecosystem: provenance.NPM, Name: name, Version: "1.0.0"},
	}
	if license != "" {
		c := provenance.NewCandidate(provenance.SourceRegistry, "", license)
		rec.License = &c
	}
	return rec
}

func TestBatchModelCounts(t *testing.T) {
	m := NewBatchModel(3, nil)

	var model tea.Model = m
	model, _ = model.Update(resultMsg(batch.Event{Index: 0, Record: testRecord("a", "MIT")}))
	model, _ = model.Update(resultMsg(batch.Event{Index: 1, Record: testRecord("b", "")}))
	model, _ = model.Update(resultMsg(batch.Event{Index: 2, Record: testRecord("c", "MIT"), Err: errors.New("down")}))

	got := model.(BatchModel)
	if got.Done != 3 || got.Licensed != 1 || got.Failed != 1 {
		t.Errorf("done=%d licensed=%d failed=%d", got.Done, got.Licensed, got.Failed)
	}
	view := got.View()
	if !strings.Contains(view, "3/3 done") {
		t.Errorf("view missing counter:\n%s", view)
	}
	if !strings.Contains(view, "npm:a@1.0.0") {
		t.Errorf("view missing recent package:\n%s", view)
	}
}

func TestBatchModelRecentWindow(t *testing.T) {
	m := NewBatchModel(20, nil)
	for i := 0; i < 20; i++ {
		m.record(batch.Event{Index: i, Record: testRecord("pkg", "MIT")})
	}
	if len(m.Recent) != recentLines {
		t.Errorf("recent = %d lines, want %d", len(m.Recent), recentLines)
	}
}

func TestBatchModelQuitCancels(t *testing.T) {
	cancelled := false
	m := NewBatchModel(1, func() { cancelled = true })

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !cancelled {
		t.Error("quit should cancel the run")
	}
	if !model.(BatchModel).Cancelled {
		t.Error("model should be marked cancelled")
	}
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
}

func TestBatchModelDone(t *testing.T) {
	m := NewBatchModel(0, nil)
	_, cmd := m.Update(batchDoneMsg{})
	if cmd == nil {
		t.Fatal("done should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done should return tea.Quit")
	}
}
