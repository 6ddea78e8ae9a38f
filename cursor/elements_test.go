package cursor

import "testing"

type countingCues struct {
	hovers, clicks int
}

func (c *countingCues) PlayHover() { c.hovers++ }
func (c *countingCues) PlayClick() { c.clicks++ }

func testElements() []Element {
	return []Element{
		{ID: "works", X: 0, Y: 0, Width: 10, Height: 1, Mode: ModeButton},
		{ID: "bio", X: 0, Y: 4, Width: 20, Height: 3, Mode: ModeText, Label: "read"},
		{ID: "photo", X: 30, Y: 4, Width: 10, Height: 5, Mode: ModeCrosshair},
	}
}

func TestElementMapEnterLeave(t *testing.T) {
	store := NewStore()
	cues := &countingCues{}
	m := NewElementMap(store, cues)
	m.Set(testElements())

	var modes []Mode
	store.Subscribe(func(st State) { modes = append(modes, st.Mode) })

	m.Hover(2, 0)   // enter works
	m.Hover(3, 0)   // still works
	m.Hover(50, 50) // leave

	want := []Mode{ModeButton, ModeDefault}
	if len(modes) != len(want) {
		t.Fatalf("modes = %v, want %v", modes, want)
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Errorf("modes[%d] = %v, want %v", i, modes[i], want[i])
		}
	}
	if cues.hovers != 1 {
		t.Errorf("hover cues = %d, want 1", cues.hovers)
	}
}

func TestElementMapDirectTransition(t *testing.T) {
	store := NewStore()
	m := NewElementMap(store, nil)
	m.Set(testElements())

	m.Hover(1, 5)
	if st := store.State(); st.Mode != ModeText || st.Label != "read" {
		t.Fatalf("state on bio = %+v", st)
	}

	var writes []State
	cancel := store.Subscribe(func(st State) { writes = append(writes, st) })
	defer cancel()

	m.Hover(31, 5)
	if st := store.State(); st.Mode != ModeCrosshair || st.Label != "" {
		t.Errorf("state on photo = %+v", st)
	}
	if len(writes) != 1 || writes[0].Mode != ModeCrosshair {
		t.Errorf("writes on bio to photo = %+v, want one crosshair write", writes)
	}

	el, ok := m.Hovered()
	if !ok || el.ID != "photo" {
		t.Errorf("Hovered() = %+v, %v", el, ok)
	}
}

func TestElementMapTopmostWins(t *testing.T) {
	store := NewStore()
	m := NewElementMap(store, nil)
	m.Set([]Element{
		{ID: "card", X: 0, Y: 0, Width: 10, Height: 10, Mode: ModeText},
		{ID: "cta", X: 2, Y: 2, Width: 3, Height: 1, Mode: ModeButton},
	})

	el, ok := m.Hover(3, 2)
	if !ok || el.ID != "cta" {
		t.Errorf("Hover over overlap = %+v, want cta", el)
	}
}

func TestElementMapClick(t *testing.T) {
	store := NewStore()
	cues := &countingCues{}
	m := NewElementMap(store, cues)
	m.Set(testElements())

	if _, ok := m.Click(99, 99); ok {
		t.Error("Click on empty space reported a hit")
	}
	el, ok := m.Click(0, 0)
	if !ok || el.ID != "works" {
		t.Errorf("Click(0,0) = %+v, %v", el, ok)
	}
	if cues.clicks != 1 {
		t.Errorf("click cues = %d, want 1", cues.clicks)
	}
}

func TestElementMapSetResetsHover(t *testing.T) {
	store := NewStore()
	m := NewElementMap(store, nil)
	m.Set(testElements())
	m.Hover(0, 0)

	m.Set(nil)
	if store.Mode() != ModeDefault {
		t.Errorf("mode after relayout = %v, want default", store.Mode())
	}
	if _, ok := m.Hovered(); ok {
		t.Error("hover survived relayout")
	}
}

func TestElementMapLeave(t *testing.T) {
	store := NewStore()
	m := NewElementMap(store, nil)
	m.Set(testElements())
	m.Hover(0, 0)
	m.Leave()

	if store.Mode() != ModeDefault {
		t.Errorf("mode after Leave = %v, want default", store.Mode())
	}
}
