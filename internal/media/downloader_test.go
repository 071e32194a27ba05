package media

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/errx"
)

func newTestDownloader(tick time.Duration) *Downloader {
	return NewDownloader(DownloaderConfig{
		Tick:    tick,
		MinStep: 30,
		MaxStep: 30,
		Decor:   decor.Fixed{},
	})
}

func TestDownloader_CompletesAtHundred(t *testing.T) {
	d := newTestDownloader(time.Millisecond)
	defer d.Shutdown(context.Background())

	dl, err := d.Start("https://videos.example/watch?v=1", "", "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !dl.Simulated || dl.Status != StatusDownloading || dl.Format != DefaultFormat || dl.Quality != DefaultQuality {
		t.Errorf("Start() = %+v", dl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	final, err := d.Wait(ctx, dl.ID)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if final.Progress != 100 || final.Status != StatusCompleted {
		t.Errorf("final = %+v", final)
	}
	if final.DownloadLink != "/api/downloads/"+dl.ID.String()+"/file" {
		t.Errorf("DownloadLink = %q", final.DownloadLink)
	}
	if final.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}

	// No further ticks after completion.
	time.Sleep(10 * time.Millisecond)
	again, _ := d.Get(dl.ID)
	if again.Progress != 100 || again.Status != StatusCompleted {
		t.Errorf("state changed after completion: %+v", again)
	}
}

func TestDownloader_Cancel(t *testing.T) {
	d := newTestDownloader(time.Hour)
	defer d.Shutdown(context.Background())

	dl, err := d.Start("https://videos.example/1", "webm", "720p")
	if err != nil {
		t.Fatal(err)
	}

	got, err := d.Cancel(dl.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if got.Status != StatusCancelled || got.DownloadLink != "" {
		t.Errorf("Cancel() = %+v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := d.Wait(ctx, dl.ID); err != nil {
		t.Fatalf("Wait() after cancel error = %v", err)
	}

	// Cancelling twice returns the same final state.
	if again, err := d.Cancel(dl.ID); err != nil || again.Status != StatusCancelled {
		t.Errorf("second Cancel() = %+v, %v", again, err)
	}
}

func TestDownloader_StartValidation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		format  string
		quality string
	}{
		{"empty url", "", "", ""},
		{"relative url", "/watch", "", ""},
		{"bad scheme", "file:///etc/passwd", "", ""},
		{"unknown format", "https://v.example/1", "flac2", ""},
		{"unknown quality", "https://v.example/1", "mp4", "8k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDownloader(time.Hour)
			defer d.Shutdown(context.Background())

			_, err := d.Start(tt.url, tt.format, tt.quality)
			if errx.KindOf(err) != errx.Invalid {
				t.Errorf("error kind = %v, want Invalid (err = %v)", errx.KindOf(err), err)
			}
			if len(d.List()) != 0 {
				t.Error("invalid request created a download")
			}
		})
	}
}

func TestDownloader_UnknownID(t *testing.T) {
	d := newTestDownloader(time.Hour)
	defer d.Shutdown(context.Background())

	if _, err := d.Get(uuid.New()); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Get() kind = %v", errx.KindOf(err))
	}
	if _, err := d.Cancel(uuid.New()); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Cancel() kind = %v", errx.KindOf(err))
	}
	if _, err := d.Wait(context.Background(), uuid.New()); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Wait() kind = %v", errx.KindOf(err))
	}
}

func TestDownloader_Shutdown(t *testing.T) {
	d := newTestDownloader(time.Hour)

	dl, err := d.Start("https://videos.example/1", "", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	got, _ := d.Get(dl.ID)
	if got.Status != StatusCancelled {
		t.Errorf("status after shutdown = %s, want cancelled", got.Status)
	}
	if _, err := d.Start("https://videos.example/2", "", ""); errx.KindOf(err) != errx.Unavailable {
		t.Errorf("Start() after shutdown kind = %v, want Unavailable", errx.KindOf(err))
	}
}

func TestDownloader_Sweep(t *testing.T) {
	d := newTestDownloader(time.Hour)
	defer d.Shutdown(context.Background())

	var ids []uuid.UUID
	for _, u := range []string{"https://videos.example/a", "https://videos.example/b", "https://videos.example/c"} {
		dl, err := d.Start(u, "", "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, dl.ID)
	}
	for _, id := range ids[:2] {
		if _, err := d.Cancel(id); err != nil {
			t.Fatal(err)
		}
	}

	if n := d.Sweep(time.Now()); n != 0 {
		t.Errorf("Sweep(now) = %d, want 0", n)
	}
	if n := d.Sweep(time.Now().Add(DefaultTTL + time.Minute)); n != 2 {
		t.Errorf("Sweep(after ttl) = %d, want 2", n)
	}

	list := d.List()
	if len(list) != 1 || list[0].ID != ids[2] {
		t.Errorf("List() after sweep = %+v", list)
	}
	if _, err := d.Get(ids[0]); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Get(swept) kind = %v, want NotFound", errx.KindOf(err))
	}
}
