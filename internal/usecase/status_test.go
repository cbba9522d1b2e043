package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/infra/fslisting"
)

func TestStatus_Execute(t *testing.T) {
	dataDir := t.TempDir()
	ls := fslisting.NewStore()

	train := domain.NewListing("train", []string{"/c/a.wav", "/c/b.wav"})
	if err := ls.Write(filepath.Join(dataDir, "train"), train); err != nil {
		t.Fatal(err)
	}

	// dev has an scp whose uttids disagree.
	devDir := filepath.Join(dataDir, "dev")
	if err := os.MkdirAll(devDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(devDir, domain.ScpFile), []byte("x /c/x.wav\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(devDir, domain.UttIDsFile), []byte("y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := NewStatus(ls).Execute(dataDir, []string{"train", "dev", "test"})
	if len(got) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(got))
	}

	if !got[0].Staged || got[0].Utterances != 2 || got[0].Err != nil {
		t.Fatalf("unexpected train status: %+v", got[0])
	}
	if got[1].Staged || !domain.IsKind(got[1].Err, domain.KindInvalidConfig) {
		t.Fatalf("expected dev to be reported broken: %+v", got[1])
	}
	if got[2].Staged || got[2].Err != nil {
		t.Fatalf("expected test to be simply not staged: %+v", got[2])
	}
}
