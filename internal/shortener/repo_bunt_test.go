package shortener

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

func sampleLink(code string, created time.Time) Link {
	return Link{
		ID:           uuid.New(),
		OriginalURL:  "https://example.com/" + code,
		ShortCode:    code,
		ShortURL:     "http://localhost:8080/s/" + code,
		CreatedAt:    created,
		QRCode:       "data:image/png;base64,AAAA",
		ClickHistory: []Click{},
	}
}

func TestBuntRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.db")

	created := time.Date(2024, 5, 17, 9, 30, 15, 123000000, time.UTC)
	clickedAt := created.Add(90 * time.Minute)

	repo, err := OpenBunt(path)
	if err != nil {
		t.Fatalf("OpenBunt() error = %v", err)
	}
	link, err := repo.Insert(ctx, sampleLink("abc123", created))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := repo.RecordClick(ctx, link.ID, Click{Timestamp: clickedAt, Referrer: "https://ref.example"}); err != nil {
		t.Fatalf("RecordClick() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBunt(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, link.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if len(got.ClickHistory) != 1 || !got.ClickHistory[0].Timestamp.Equal(clickedAt) {
		t.Fatalf("ClickHistory = %+v", got.ClickHistory)
	}
	if got.Clicks != 1 {
		t.Errorf("Clicks = %d, want 1", got.Clicks)
	}
	if got.ClickHistory[0].Referrer != "https://ref.example" {
		t.Errorf("Referrer = %q", got.ClickHistory[0].Referrer)
	}
}

func TestBuntRepository_StoresListUnderOneKey(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)

	now := time.Now().UTC()
	if _, err := repo.Insert(ctx, sampleLink("one111", now)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Insert(ctx, sampleLink("two222", now)); err != nil {
		t.Fatal(err)
	}

	var raw string
	err := repo.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(StorageKey)
		return err
	})
	if err != nil {
		t.Fatalf("reading %s: %v", StorageKey, err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("stored value is not a JSON list: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["shortCode"] != "two222" {
		t.Errorf("stored list = %s", raw)
	}
	created, _ := decoded[0]["createdAt"].(string)
	if _, err := time.Parse(time.RFC3339Nano, created); err != nil {
		t.Errorf("createdAt %q is not ISO-8601: %v", created, err)
	}
}

func TestBuntRepository_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		run      func(r *BuntRepository) error
		wantKind errx.Kind
	}{
		{
			name: "duplicate code",
			run: func(r *BuntRepository) error {
				_, err := r.Insert(ctx, sampleLink("dup", time.Now()))
				return err
			},
			wantKind: errx.Conflict,
		},
		{
			name: "get unknown id",
			run: func(r *BuntRepository) error {
				_, err := r.Get(ctx, uuid.New())
				return err
			},
			wantKind: errx.NotFound,
		},
		{
			name: "get unknown code",
			run: func(r *BuntRepository) error {
				_, err := r.GetByCode(ctx, "missing")
				return err
			},
			wantKind: errx.NotFound,
		},
		{
			name: "click unknown id",
			run: func(r *BuntRepository) error {
				_, err := r.RecordClick(ctx, uuid.New(), Click{Timestamp: time.Now()})
				return err
			},
			wantKind: errx.NotFound,
		},
		{
			name: "delete unknown id",
			run: func(r *BuntRepository) error {
				return r.Delete(ctx, uuid.New())
			},
			wantKind: errx.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepo(t)
			if _, err := repo.Insert(ctx, sampleLink("dup", time.Now())); err != nil {
				t.Fatal(err)
			}

			err := tt.run(repo)
			if errx.KindOf(err) != tt.wantKind {
				t.Errorf("error kind = %v, want %v (err = %v)", errx.KindOf(err), tt.wantKind, err)
			}
			if strings.Count(err.Error(), "shortener.BuntRepository") != 1 {
				t.Errorf("error %q should carry exactly one op", err)
			}

			links, _ := repo.List(ctx)
			if len(links) != 1 {
				t.Errorf("failed operation changed the list: %+v", links)
			}
		})
	}
}

func TestBuntRepository_EmptyList(t *testing.T) {
	links, err := newMemoryRepo(t).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if links == nil || len(links) != 0 {
		t.Errorf("List() = %#v, want empty slice", links)
	}
}
