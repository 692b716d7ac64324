package scopemap

import "testing"

func TestInsertAndLookup(t *testing.T) {
	m := New[int](32)
	m.Insert("a", 0, 1)
	v, level, ok := m.Lookup("a")
	if !ok || v != 1 || level != 0 {
		t.Fatalf("Lookup(a) = (%d, %d, %v), want (1, 0, true)", v, level, ok)
	}
	if _, _, ok := m.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) should fail")
	}
}

func TestInsertReportsPreviousValue(t *testing.T) {
	m := New[int](32)
	m.Insert("a", 0, 1)
	old, existed := m.Insert("a", 1, 2)
	if !existed || old != 1 {
		t.Fatalf("Insert overwrite = (%d, %v), want (1, true)", old, existed)
	}
	v, level, _ := m.Lookup("a")
	if v != 2 || level != 1 {
		t.Fatalf("after overwrite Lookup(a) = (%d, %d), want (2, 1)", v, level)
	}
}

func TestPurgeRemovesAtOrAboveLevel(t *testing.T) {
	m := New[int](32)
	m.Insert("global", 0, 1)
	m.Insert("block1", 1, 2)
	m.Insert("block2", 2, 3)

	m.Purge(1)

	if _, _, ok := m.Lookup("block1"); ok {
		t.Error("block1 should have been purged")
	}
	if _, _, ok := m.Lookup("block2"); ok {
		t.Error("block2 should have been purged")
	}
	if v, _, ok := m.Lookup("global"); !ok || v != 1 {
		t.Error("global should survive a purge at a deeper level")
	}
}

func TestRemove(t *testing.T) {
	m := New[int](32)
	m.Insert("a", 0, 1)
	m.Remove("a")
	if _, _, ok := m.Lookup("a"); ok {
		t.Error("a should be gone after Remove")
	}
}

func TestLen(t *testing.T) {
	m := New[int](32)
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
	m.Insert("a", 0, 1)
	m.Insert("b", 0, 2)
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
}

func TestAscendVisitsInKeyOrder(t *testing.T) {
	m := New[int](32)
	m.Insert("c", 0, 3)
	m.Insert("a", 0, 1)
	m.Insert("b", 0, 2)

	var keys []string
	m.Ascend(func(key string, level int, value int) bool {
		keys = append(keys, key)
		return true
	})
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Ascend order = %v, want %v", keys, want)
		}
	}
}

func TestAscendStopsEarly(t *testing.T) {
	m := New[int](32)
	m.Insert("a", 0, 1)
	m.Insert("b", 0, 2)
	m.Insert("c", 0, 3)

	var seen int
	m.Ascend(func(key string, level int, value int) bool {
		seen++
		return key != "b"
	})
	if seen != 2 {
		t.Fatalf("Ascend visited %d entries, want 2", seen)
	}
}
