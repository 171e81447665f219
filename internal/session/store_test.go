package session

import (
	"sync"
	"testing"
	"time"

	"raincloud/domain/core"
	"raincloud/domain/table"
	"raincloud/internal/errors"
)

func sampleDataset(name string) table.Dataset {
	return table.Dataset{
		ID:   core.NewDatasetID(),
		Name: name,
		Table: table.RawTable{Columns: []table.Column{
			{Name: "A", Cells: []table.Cell{table.Num(1), table.Num(2)}},
		}},
		UploadedAt: time.Now(),
		SizeBytes:  64,
	}
}

func TestPutAndCurrent(t *testing.T) {
	store := NewStore()

	if _, ok := store.Current(); ok {
		t.Fatalf("fresh store must be empty")
	}

	ds := sampleDataset("first.csv")
	store.Put(ds)

	got, ok := store.Current()
	if !ok {
		t.Fatalf("expected a current dataset after Put")
	}
	if got.ID != ds.ID || got.Name != "first.csv" {
		t.Fatalf("wrong dataset returned: %+v", got)
	}
}

func TestPutReplacesPrevious(t *testing.T) {
	store := NewStore()
	first := sampleDataset("first.csv")
	second := sampleDataset("second.csv")

	store.Put(first)
	store.Put(second)

	got, ok := store.Current()
	if !ok || got.ID != second.ID {
		t.Fatalf("expected second dataset to be current, got %+v", got)
	}
	if _, err := store.Get(first.ID); !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("stale ID must resolve to not-found, got %v", err)
	}
}

func TestGetMatchesID(t *testing.T) {
	store := NewStore()
	ds := sampleDataset("data.xlsx")
	store.Put(ds)

	got, err := store.Get(ds.ID)
	if err != nil {
		t.Fatalf("Get with matching ID failed: %v", err)
	}
	if got.Name != "data.xlsx" {
		t.Fatalf("wrong dataset: %+v", got)
	}

	if _, err := store.Get(core.NewDatasetID()); !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("unknown ID must be not-found, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := NewStore()
	ds := sampleDataset("data.csv")
	store.Put(ds)
	store.Clear()

	if _, ok := store.Current(); ok {
		t.Fatalf("store must be empty after Clear")
	}
	if _, err := store.Get(ds.ID); !errors.HasCode(err, errors.CodeNotFound) {
		t.Fatalf("cleared dataset must be not-found, got %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Put(sampleDataset("race.csv"))
		}()
		go func() {
			defer wg.Done()
			store.Current()
		}()
	}
	wg.Wait()

	if _, ok := store.Current(); !ok {
		t.Fatalf("expected a dataset after concurrent puts")
	}
}
