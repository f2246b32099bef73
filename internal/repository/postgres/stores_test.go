package postgres

import (
	"testing"

	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository"
)

// Compile-time proof that every store satisfies its contract.
var (
	_ repository.ConfigRepository = (*ConfigStore)(nil)
	_ repository.EventRepository  = (*EventStore)(nil)
	_ repository.UploadRepository = (*UploadStore)(nil)
	_ repository.CatchRepository  = (*CatchStore)(nil)
	_ repository.ResultRepository = (*ResultStore)(nil)
	_ repository.StandingsReader  = (*ResultStore)(nil)
	_ repository.CommunityWiper   = (*WipeStore)(nil)
)

func TestHandleColumnCoversEveryDocument(t *testing.T) {
	seen := map[string]bool{}
	for _, doc := range models.AllDocuments {
		col, err := handleColumn(doc)
		if err != nil {
			t.Fatalf("handleColumn(%s): %v", doc, err)
		}
		if seen[col] {
			t.Fatalf("column %s mapped twice", col)
		}
		seen[col] = true
	}
	if _, err := handleColumn("bogus"); err == nil {
		t.Fatal("expected error for unknown document")
	}
}
