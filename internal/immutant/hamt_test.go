package immutant

import (
	"fmt"
	"slices"
	"strconv"
	"testing"
)

// badHasher sends every key to one of four hashes, forcing collision buckets.
type badHasher struct{}

func (badHasher) Hash(key int) uint32 { return uint32(key % 4) }
func (badHasher) Equal(a, b int) bool { return a == b }

func TestMap_PutGet(t *testing.T) {
	m := NewMap[string, int](StringHasher{})
	for i := 0; i < 2000; i++ {
		m = m.Put(strconv.Itoa(i), i)
	}
	if m.Len() != 2000 {
		t.Fatalf("Len = %d, want 2000", m.Len())
	}
	for i := 0; i < 2000; i++ {
		got, ok := m.Get(strconv.Itoa(i))
		if !ok || got != i {
			t.Fatalf("Get(%d) = %d, %v", i, got, ok)
		}
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get of absent key should report false")
	}
}

func TestMap_PutOverwrites(t *testing.T) {
	m := NewMap[string, int](StringHasher{}).Put("a", 1)
	m2 := m.Put("a", 2)
	if m2.Len() != 1 {
		t.Errorf("Len = %d, want 1", m2.Len())
	}
	if v, _ := m2.Get("a"); v != 2 {
		t.Errorf("new version = %d, want 2", v)
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Errorf("old version = %d, want 1", v)
	}
}

func TestMap_Remove(t *testing.T) {
	m := NewMap[string, int](StringHasher{})
	for i := 0; i < 500; i++ {
		m = m.Put(strconv.Itoa(i), i)
	}
	full := m
	for i := 0; i < 500; i += 2 {
		m = m.Remove(strconv.Itoa(i))
	}
	if m.Len() != 250 {
		t.Fatalf("Len = %d, want 250", m.Len())
	}
	for i := 0; i < 500; i++ {
		_, ok := m.Get(strconv.Itoa(i))
		if ok != (i%2 == 1) {
			t.Fatalf("Get(%d) present = %v", i, ok)
		}
	}
	if full.Len() != 500 {
		t.Error("Remove changed an older version")
	}
	if same := m.Remove("nope"); same != m {
		t.Error("removing an absent key should return the receiver")
	}
}

func TestMap_Collisions(t *testing.T) {
	m := NewMap[int, string](badHasher{})
	for i := 0; i < 40; i++ {
		m = m.Put(i, fmt.Sprint(i))
	}
	if m.Len() != 40 {
		t.Fatalf("Len = %d, want 40", m.Len())
	}
	for i := 0; i < 40; i++ {
		if v, ok := m.Get(i); !ok || v != fmt.Sprint(i) {
			t.Fatalf("Get(%d) = %q, %v", i, v, ok)
		}
	}
	m = m.Put(5, "five")
	if v, _ := m.Get(5); v != "five" || m.Len() != 40 {
		t.Errorf("overwrite in bucket: %q, len %d", v, m.Len())
	}
	for i := 0; i < 40; i++ {
		m = m.Remove(i)
	}
	if m.Len() != 0 {
		t.Errorf("Len after removing all = %d", m.Len())
	}
	if _, ok := m.Get(3); ok {
		t.Error("removed key still present")
	}
}

func TestMap_AllVisitsEveryEntry(t *testing.T) {
	m := NewMap[string, int](StringHasher{})
	for i := 0; i < 100; i++ {
		m = m.Put(strconv.Itoa(i), i)
	}
	var seen []int
	for _, v := range m.All() {
		seen = append(seen, v)
	}
	slices.Sort(seen)
	if len(seen) != 100 || seen[0] != 0 || seen[99] != 99 {
		t.Errorf("All visited %d entries", len(seen))
	}
	if len(m.Keys()) != 100 {
		t.Errorf("Keys returned %d", len(m.Keys()))
	}
}
