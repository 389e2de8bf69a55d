package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/foodscan/internal/domain"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func rec(code string, minute int) domain.ScanRecord {
	return domain.ScanRecord{Code: code, ScannedAt: base.Add(time.Duration(minute) * time.Minute)}
}

func codes(records []domain.ScanRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Code)
	}
	return out
}

func TestRecordOrdersNewestFirst(t *testing.T) {
	store := NewMemoryStore(0)
	store.Record(rec("111", 1))
	store.Record(rec("222", 2))

	want := []domain.ScanRecord{rec("222", 2), rec("111", 1)}
	if diff := cmp.Diff(want, store.Recent(2)); diff != "" {
		t.Fatalf("Recent(2) mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordEvictsOldestPastCapacity(t *testing.T) {
	store := NewMemoryStore(0)
	for i := 0; i < domain.MaxHistoryItems+1; i++ {
		store.Record(rec(fmt.Sprintf("%08d", i), i))
	}

	all := store.All()
	if len(all) != domain.MaxHistoryItems {
		t.Fatalf("expected %d records, got %d", domain.MaxHistoryItems, len(all))
	}
	for _, r := range all {
		if r.Code == "00000000" {
			t.Fatal("first recorded item should have been evicted")
		}
	}
	if all[0].Code != fmt.Sprintf("%08d", domain.MaxHistoryItems) {
		t.Fatalf("newest record not at front: %s", all[0].Code)
	}
}

func TestRecordDeduplicatesAndFreshens(t *testing.T) {
	store := NewMemoryStore(0)
	store.Record(rec("111", 1))
	store.Record(rec("222", 2))
	store.Record(rec("111", 3))

	want := []domain.ScanRecord{rec("111", 3), rec("222", 2)}
	if diff := cmp.Diff(want, store.All()); diff != "" {
		t.Fatalf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordDeduplicatesFromAnyPosition(t *testing.T) {
	store := NewMemoryStore(5)
	for i, code := range []string{"a", "b", "c", "d", "e"} {
		store.Record(rec(code, i))
	}
	store.Record(rec("c", 10))

	if diff := cmp.Diff([]string{"c", "e", "d", "b", "a"}, codes(store.All())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 5 {
		t.Fatalf("re-record must not grow the list, len=%d", store.Len())
	}
}

func TestRecordNeverExceedsCapacityOrDuplicates(t *testing.T) {
	store := NewMemoryStore(7)
	for i := 0; i < 200; i++ {
		store.Record(rec(fmt.Sprintf("c%d", (i*7)%13), i))

		all := store.All()
		if len(all) > 7 {
			t.Fatalf("step %d: len %d exceeds capacity", i, len(all))
		}
		seen := map[string]bool{}
		for _, r := range all {
			if seen[r.Code] {
				t.Fatalf("step %d: duplicate code %s", i, r.Code)
			}
			seen[r.Code] = true
		}
	}
}

func TestRecent(t *testing.T) {
	store := NewMemoryStore(0)
	for i, code := range []string{"a", "b", "c"} {
		store.Record(rec(code, i))
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "zero", limit: 0, want: []string{}},
		{name: "negative clamps to zero", limit: -3, want: []string{}},
		{name: "partial", limit: 2, want: []string{"c", "b"}},
		{name: "exact length", limit: 3, want: []string{"c", "b", "a"}},
		{name: "past length", limit: 13, want: []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, codes(store.Recent(tt.limit))); diff != "" {
				t.Fatalf("Recent(%d) mismatch (-want +got):\n%s", tt.limit, diff)
			}
		})
	}
	if store.Len() != 3 {
		t.Fatalf("Recent must not mutate, len=%d", store.Len())
	}
}

func TestClear(t *testing.T) {
	store := NewMemoryStore(0)
	store.Clear()
	if got := store.All(); len(got) != 0 {
		t.Fatalf("expected empty store, got %v", got)
	}

	store.Record(rec("111", 1))
	store.Record(rec("222", 2))
	store.Clear()
	if got := store.All(); len(got) != 0 {
		t.Fatalf("expected empty store after clear, got %v", got)
	}
}

func TestRemove(t *testing.T) {
	store := NewMemoryStore(0)
	for i, code := range []string{"a", "b", "c", "d"} {
		store.Record(rec(code, i))
	}

	store.Remove("999")
	if diff := cmp.Diff([]string{"d", "c", "b", "a"}, codes(store.All())); diff != "" {
		t.Fatalf("absent remove changed list (-want +got):\n%s", diff)
	}

	store.Remove("c")
	if diff := cmp.Diff([]string{"d", "b", "a"}, codes(store.All())); diff != "" {
		t.Fatalf("remove mismatch (-want +got):\n%s", diff)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	store := NewMemoryStore(0)
	store.Record(rec("111", 1))

	got := store.All()
	got[0].Code = "mutated"
	got = append(got, rec("extra", 2))

	recent := store.Recent(5)
	recent[0].Name = "mutated"

	want := []domain.ScanRecord{rec("111", 1)}
	if diff := cmp.Diff(want, store.All()); diff != "" {
		t.Fatalf("internal state leaked (-want +got):\n%s", diff)
	}
}

func TestConcurrentRecord(t *testing.T) {
	store := NewMemoryStore(10)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				store.Record(rec(fmt.Sprintf("g%d-%d", g, i%15), i))
				_ = store.Recent(3)
			}
		}(g)
	}
	wg.Wait()

	if store.Len() != 10 {
		t.Fatalf("expected full store, len=%d", store.Len())
	}
}

func TestCapacityDefaultsWhenUnset(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: domain.MaxHistoryItems},
		{in: -3, want: domain.MaxHistoryItems},
		{in: 7, want: 7},
	}
	for _, tt := range tests {
		if got := NewMemoryStore(tt.in).Capacity(); got != tt.want {
			t.Errorf("NewMemoryStore(%d).Capacity() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
