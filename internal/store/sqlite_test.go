package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/izzyreal/owltest/internal/protocol"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "owltest-test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func sampleResult() protocol.ResultSet {
	tabs := protocol.NewTabs()
	tabs.Set("Warning_1", protocol.TabGroup{Label: "Warnings", Messages: []protocol.Message{{Text: "unused"}}})
	tabs.Set("Error_1", protocol.TabGroup{Label: "Errors", Messages: []protocol.Message{{Text: "boom", Points: protocol.Float(2)}}})
	tabs.Set("Comments", protocol.TabGroup{Label: "Comments"})
	return protocol.ResultSet{
		Score:           protocol.Float(8),
		MaxScore:        protocol.Float(10),
		Tabs:            tabs,
		StudentFilename: "mancala.py",
		StudentCode:     "print(1)\n",
	}
}

func TestStorePutAndGetResult(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	rec, err := s.PutResult("run-1", sampleResult())
	if err != nil {
		t.Fatalf("put result: %v", err)
	}
	if rec.ID != "run-1" || rec.Status != protocol.ResultStatusComplete {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedUTC.IsZero() || rec.UpdatedUTC.IsZero() {
		t.Fatalf("timestamps not set: %+v", rec)
	}

	got, err := s.GetResult("run-1")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if ids := strings.Join(got.Result.Tabs.IDs(), ","); ids != "Warning_1,Error_1,Comments" {
		t.Fatalf("tab order not preserved through storage: %s", ids)
	}
	if got.Result.StudentFilename != "mancala.py" || *got.Result.Score != 8 {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
}

func TestStorePutResultReplacesAndKeepsSubmitter(t *testing.T) {
	s := openTestStore(t)
	created, err := s.CreateResult(" alice ", protocol.ResultSet{StudentFilename: "a.py", StudentCode: "x = 1"})
	if err != nil {
		t.Fatalf("create result: %v", err)
	}
	if created.Status != protocol.ResultStatusPending || created.Submitter != "alice" {
		t.Fatalf("unexpected created record: %+v", created)
	}

	updated, err := s.PutResult(created.ID, protocol.ResultSet{ErrorMessage: "SyntaxError"})
	if err != nil {
		t.Fatalf("put result: %v", err)
	}
	if updated.Status != protocol.ResultStatusError {
		t.Fatalf("status: %q", updated.Status)
	}
	if updated.Submitter != "alice" {
		t.Fatalf("submitter lost on replace: %q", updated.Submitter)
	}
	if !updated.CreatedUTC.Equal(created.CreatedUTC) {
		t.Fatalf("created time changed: %v -> %v", created.CreatedUTC, updated.CreatedUTC)
	}
	if updated.Result.Tabs != nil {
		t.Fatalf("replaced result should have no tabs: %+v", updated.Result)
	}
}

func TestStoreGetMissingResult(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetResult("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteResult("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if _, err := s.PutResult("  ", sampleResult()); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestStoreListAndDeleteResults(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := s.PutResult(fmt.Sprintf("run-%d", i), sampleResult()); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	all, err := s.ListResults(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "run-2" || all[2].ID != "run-0" {
		t.Fatalf("expected newest first, got %v", resultIDs(all))
	}
	limited, err := s.ListResults(2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit ignored: %v", resultIDs(limited))
	}

	if err := s.DeleteResult("run-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after, _ := s.ListResults(0)
	if got := strings.Join(resultIDs(after), ","); got != "run-2,run-0" {
		t.Fatalf("after delete: %s", got)
	}
}

func TestStoreConcurrentCreates(t *testing.T) {
	s := openTestStore(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.PutResult(fmt.Sprintf("c-%d", i), sampleResult()); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent put: %v", err)
	}
	all, err := s.ListResults(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 8 {
		t.Fatalf("expected 8 results, got %d", len(all))
	}
}

func resultIDs(recs []protocol.ResultRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
