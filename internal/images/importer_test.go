package images

import (
	"context"
	"errors"
	"testing"

	"github.com/binderworks/tcg-binder/internal/storage/repository"
)

// fakeImageRepo records pair writes in memory.
type fakeImageRepo struct {
	originals map[string]repository.StoredImage
	thumbs    map[string]repository.StoredImage
	order     []string
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{
		originals: make(map[string]repository.StoredImage),
		thumbs:    make(map[string]repository.StoredImage),
	}
}

func (f *fakeImageRepo) PutPair(_ context.Context, cardID string, original, thumb repository.StoredImage) error {
	f.originals[cardID] = original
	f.thumbs[cardID] = thumb
	f.order = append(f.order, cardID)
	return nil
}

func (f *fakeImageRepo) Original(_ context.Context, cardID string) (*repository.StoredImage, error) {
	if img, ok := f.originals[cardID]; ok {
		return &img, nil
	}
	return nil, nil
}

func (f *fakeImageRepo) Thumb(_ context.Context, cardID string) (*repository.StoredImage, error) {
	if img, ok := f.thumbs[cardID]; ok {
		return &img, nil
	}
	return nil, nil
}

func (f *fakeImageRepo) Display(ctx context.Context, cardID string) (*repository.StoredImage, error) {
	if img, err := f.Thumb(ctx, cardID); err != nil || img != nil {
		return img, err
	}
	return f.Original(ctx, cardID)
}

func (f *fakeImageRepo) OriginalIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.originals))
	for id := range f.originals {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeImageRepo) Clear(context.Context) error {
	f.originals = make(map[string]repository.StoredImage)
	f.thumbs = make(map[string]repository.StoredImage)
	return nil
}

type fakeMetaRepo struct {
	folders map[string]string
}

func (f *fakeMetaRepo) SetFolder(_ context.Context, cardID, folder string) error {
	if f.folders == nil {
		f.folders = make(map[string]string)
	}
	f.folders[cardID] = folder
	return nil
}

func (f *fakeMetaRepo) Folder(_ context.Context, cardID string) (string, error) {
	return f.folders[cardID], nil
}

func (f *fakeMetaRepo) AllFolders(context.Context) (map[string]string, error) {
	return f.folders, nil
}

func (f *fakeMetaRepo) Clear(context.Context) error {
	f.folders = nil
	return nil
}

func TestImporter_FiltersAndDerivesIDs(t *testing.T) {
	repo := newFakeImageRepo()
	meta := &fakeMetaRepo{}
	imp := &Importer{Images: repo, Meta: meta}

	png := encodePNG(t, 40, 60)
	entries := []Entry{
		{Path: "OP01/OP01-001.png", Data: png},
		{Path: "OP02\\OP02-010.jpeg", Data: png}, // backslash separators
		{Path: "readme.txt", Data: []byte("not an image")},
		{Path: "covers/notes.pdf", Data: []byte("also not")},
	}

	count, err := imp.Import(context.Background(), entries)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 imported, got %d", count)
	}
	if _, ok := repo.originals["OP01-001"]; !ok {
		t.Error("OP01-001 not imported")
	}
	if _, ok := repo.originals["OP02-010"]; !ok {
		t.Error("backslash path not handled")
	}
	if repo.originals["OP01-001"].MIME != "image/png" {
		t.Errorf("mime not derived from extension: %s", repo.originals["OP01-001"].MIME)
	}
	if meta.folders["OP01-001"] != "OP01" {
		t.Errorf("folder provenance not recorded: %v", meta.folders)
	}
}

func TestImporter_NoImages(t *testing.T) {
	imp := &Importer{Images: newFakeImageRepo()}
	_, err := imp.Import(context.Background(), []Entry{
		{Path: "a.txt", Data: []byte("x")},
	})
	if !errors.Is(err, ErrNoImagesFound) {
		t.Fatalf("expected ErrNoImagesFound, got %v", err)
	}
}

func TestImporter_CollisionLastWins(t *testing.T) {
	repo := newFakeImageRepo()
	imp := &Importer{Images: repo}

	a := encodePNG(t, 10, 10)
	b := encodePNG(t, 20, 20)
	entries := []Entry{
		{Path: "OP01/OP01-001.png", Data: a},
		{Path: "OP02/OP01-001.png", Data: b},
	}
	if _, err := imp.Import(context.Background(), entries); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if got := repo.originals["OP01-001"].Data; len(got) != len(b) {
		t.Errorf("expected later entry to win the collision")
	}
}

func TestImporter_BadImageFallsBackToOriginal(t *testing.T) {
	repo := newFakeImageRepo()
	imp := &Importer{Images: repo}

	garbage := []byte("jpeg on the outside only")
	entries := []Entry{
		{Path: "OP01-001.jpg", Data: garbage},
	}
	count, err := imp.Import(context.Background(), entries)
	if err != nil {
		t.Fatalf("a bad image must not fail the batch: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 imported, got %d", count)
	}
	thumb := repo.thumbs["OP01-001"]
	if string(thumb.Data) != string(garbage) {
		t.Errorf("thumbnail should be a byte-identical copy of the original on failure")
	}
}

func TestImporter_ProgressAndYield(t *testing.T) {
	repo := newFakeImageRepo()
	png := encodePNG(t, 8, 8)

	var progress []Progress
	yields := 0
	imp := &Importer{
		Images:     repo,
		BatchSize:  2,
		OnProgress: func(p Progress) { progress = append(progress, p) },
		Yield:      func() { yields++ },
	}

	entries := []Entry{
		{Path: "OP01-001.png", Data: png},
		{Path: "OP01-002.png", Data: png},
		{Path: "OP01-003.png", Data: png},
		{Path: "OP01-004.png", Data: png},
		{Path: "OP01-005.png", Data: png},
	}
	if _, err := imp.Import(context.Background(), entries); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(progress) != 5 {
		t.Errorf("expected 5 progress reports, got %d", len(progress))
	}
	if progress[0].Done != 1 || progress[0].Total != 5 || progress[0].Current != "OP01-001.png" {
		t.Errorf("unexpected first progress: %+v", progress[0])
	}
	if yields != 2 {
		t.Errorf("expected a yield every 2 items (2 total), got %d", yields)
	}
}

func TestImporter_ContextCancellation(t *testing.T) {
	repo := newFakeImageRepo()
	png := encodePNG(t, 8, 8)

	ctx, cancel := context.WithCancel(context.Background())
	imp := &Importer{
		Images:    repo,
		BatchSize: 1,
		Yield:     func() {},
		OnProgress: func(p Progress) {
			if p.Done == 2 {
				cancel()
			}
		},
	}

	entries := []Entry{
		{Path: "OP01-001.png", Data: png},
		{Path: "OP01-002.png", Data: png},
		{Path: "OP01-003.png", Data: png},
	}
	done, err := imp.Import(ctx, entries)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if done != 2 {
		t.Errorf("expected to stop after 2 items, got %d", done)
	}
}
