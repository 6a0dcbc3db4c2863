package postprocess

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newProcessor() *Processor {
	return New(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), slog.New(slog.DiscardHandler))
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractWrapped(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"value on next line", "Attorney for Judgment Creditor\nFile No.\nL2501375\nNew York, NY", "L2501375"},
		{"value two lines down", "File No.\nAttn: Collections\nL2501375", "L2501375"},
		{"inline value", "File No. J2210025\nremainder", "J2210025"},
		{"no label", "Account summary follows below this line.", ""},
		{"label too far from value", "File No.\na\nb\nL2501375", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractWrapped(tt.text); got != tt.want {
				t.Errorf("extractWrapped = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFinish(t *testing.T) {
	p := newProcessor()
	if got := p.finish("12501375"); got != "L2501375" {
		t.Errorf("finish(12501375) = %q, want L2501375", got)
	}
	// A corrected value that still fails shape validation is discarded.
	if got := p.finish("ABC123"); got != "" {
		t.Errorf("finish(ABC123) = %q, want empty", got)
	}
}

func TestProcessDirectoryCorrectsNames(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "IS_12501375.pdf"))
	touch(t, filepath.Join(dir, "IS_L2501999.pdf")) // already correct

	stats, err := newProcessor().ProcessDirectory(context.Background(), dir, "IS")
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if stats.Examined != 2 || stats.Corrected != 1 {
		t.Errorf("stats = %+v, want 2 examined, 1 corrected", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "IS_L2501375.pdf")); err != nil {
		t.Error("corrected file missing")
	}
	if _, err := os.Stat(filepath.Join(dir, "IS_L2501999.pdf")); err != nil {
		t.Error("already-correct file was touched")
	}
}

func TestProcessDirectoryNoClobber(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "IS_12501375.pdf"))
	touch(t, filepath.Join(dir, "IS_L2501375.pdf")) // correction target taken

	stats, err := newProcessor().ProcessDirectory(context.Background(), dir, "IS")
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if stats.Corrected != 0 {
		t.Errorf("stats = %+v, want no corrections", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "IS_12501375.pdf")); err != nil {
		t.Error("original file should remain when target exists")
	}
}

func TestProcessDirectoryEmpty(t *testing.T) {
	stats, err := newProcessor().ProcessDirectory(context.Background(), t.TempDir(), "IS")
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if stats.Examined != 0 {
		t.Errorf("stats = %+v, want nothing examined", stats)
	}
}
