package media

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
	webmHeader = []byte("\x1a\x45\xdf\xa3\x01\x00\x00\x00")
)

func TestLibrary_Add(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		wantKind Kind
		wantType string
		wantErr  errx.Kind
	}{
		{name: "png", file: "logo.png", data: pngHeader, wantKind: KindImage, wantType: "image/png"},
		{name: "gif", file: "anim.gif", data: gifHeader, wantKind: KindImage, wantType: "image/gif"},
		{name: "webm", file: "clip.webm", data: webmHeader, wantKind: KindVideo, wantType: "video/webm"},
		{name: "video by extension", file: "movie.mp4", data: []byte("not really sniffable"), wantKind: KindVideo, wantType: "video/mp4"},
		{name: "text rejected", file: "notes.txt", data: []byte("hello"), wantErr: errx.Invalid},
		{name: "empty rejected", file: "empty.png", data: nil, wantErr: errx.Invalid},
		{name: "missing name", file: "  ", data: pngHeader, wantErr: errx.Invalid},
		{name: "too large", file: "big.png", data: append(bytes.Clone(pngHeader), make([]byte, 64)...), wantErr: errx.TooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := NewLibrary(LibraryConfig{MaxSize: 32})

			item, err := lib.Add(tt.file, tt.data)
			if tt.wantErr != errx.Unknown {
				if errx.KindOf(err) != tt.wantErr {
					t.Fatalf("error kind = %v, want %v (err = %v)", errx.KindOf(err), tt.wantErr, err)
				}
				if lib.Len() != 0 {
					t.Error("rejected upload was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if item.Kind != tt.wantKind || item.Type != tt.wantType {
				t.Errorf("Add() = %+v, want kind %s type %s", item, tt.wantKind, tt.wantType)
			}
			if item.Size != int64(len(tt.data)) || item.Name != tt.file {
				t.Errorf("Add() = %+v", item)
			}
		})
	}
}

func TestLibrary_StoresACopy(t *testing.T) {
	lib := NewLibrary(LibraryConfig{})
	data := bytes.Clone(pngHeader)

	item, err := lib.Add("a.png", data)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'

	_, r, err := lib.Open(item.ID)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(r)
	if !bytes.Equal(got, pngHeader) {
		t.Error("library content changed with the caller's buffer")
	}
}

func TestLibrary_ListAndDelete(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lib := NewLibrary(LibraryConfig{Now: func() time.Time { return now }})

	img1, _ := lib.Add("one.png", pngHeader)
	vid, _ := lib.Add("two.webm", webmHeader)
	img2, _ := lib.Add("three.gif", gifHeader)

	t.Run("newest first", func(t *testing.T) {
		all := lib.List("")
		if len(all) != 3 || all[0].ID != img2.ID || all[2].ID != img1.ID {
			t.Errorf("List() = %+v", all)
		}
	})

	t.Run("filter by kind", func(t *testing.T) {
		if got := lib.List(KindImage); len(got) != 2 {
			t.Errorf("images = %d, want 2", len(got))
		}
		if got := lib.List(KindVideo); len(got) != 1 || got[0].ID != vid.ID {
			t.Errorf("videos = %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := lib.Delete(vid.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := lib.Get(vid.ID); errx.KindOf(err) != errx.NotFound {
			t.Errorf("Get() kind = %v, want NotFound", errx.KindOf(err))
		}
		if err := lib.Delete(vid.ID); errx.KindOf(err) != errx.NotFound {
			t.Errorf("second Delete() kind = %v, want NotFound", errx.KindOf(err))
		}
	})

	t.Run("delete many ignores unknown ids", func(t *testing.T) {
		removed := lib.DeleteMany([]uuid.UUID{img1.ID, uuid.New(), img2.ID})
		if len(removed) != 2 {
			t.Errorf("DeleteMany() removed %d, want 2", len(removed))
		}
		if lib.Len() != 0 || len(lib.List("")) != 0 {
			t.Errorf("library not empty: %+v", lib.List(""))
		}
	})
}

func TestLibrary_Clear(t *testing.T) {
	lib := NewLibrary(LibraryConfig{})
	if got := lib.Clear(); got == nil || len(got) != 0 {
		t.Errorf("Clear() on empty library = %v, want empty slice", got)
	}

	a, _ := lib.Add("a.png", pngHeader)
	b, _ := lib.Add("b.webm", webmHeader)

	removed := lib.Clear()
	if len(removed) != 2 || removed[0] != a.ID || removed[1] != b.ID {
		t.Errorf("Clear() = %v, want [%v %v]", removed, a.ID, b.ID)
	}
	if lib.Len() != 0 {
		t.Errorf("Len() = %d after Clear", lib.Len())
	}
	if _, _, err := lib.Open(a.ID); errx.KindOf(err) != errx.NotFound {
		t.Errorf("Open() after Clear kind = %v, want NotFound", errx.KindOf(err))
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", "", false},
		{"image", KindImage, false},
		{"Images", KindImage, false},
		{"videos", KindVideo, false},
		{"audio", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
