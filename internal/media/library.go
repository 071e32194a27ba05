// Package media holds the ephemeral media utilities: an in-memory image and
// video library and a simulated URL downloader. Nothing here touches disk.
package media

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/idgen"
)

// DefaultMaxUploadSize caps a single upload (100MB).
const DefaultMaxUploadSize int64 = 100 << 20

// sniffLen is how many leading bytes http.DetectContentType inspects.
const sniffLen = 512

// extensionTypes covers media extensions missing from the builtin mime table.
var extensionTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".ogv":  "video/ogg",
	".heic": "image/heic",
	".bmp":  "image/bmp",
	".ico":  "image/x-icon",
}

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ParseKind accepts "", "image" or "video" (plural forms too).
func ParseKind(s string) (Kind, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "":
		return "", nil
	case string(KindImage):
		return KindImage, nil
	case string(KindVideo):
		return KindVideo, nil
	default:
		return "", errx.Ef("media.ParseKind", errx.Invalid, "unknown media kind %q", s)
	}
}

// Item describes one uploaded file.
type Item struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	Kind       Kind      `json:"kind"`
	UploadDate time.Time `json:"uploadDate"`
}

type entry struct {
	item Item
	data []byte
}

// LibraryConfig holds Library dependencies. Zero values get defaults.
type LibraryConfig struct {
	MaxSize int64
	IDs     idgen.Generator
	Now     func() time.Time
}

// Library keeps uploads in memory for the life of the process.
type Library struct {
	maxSize int64
	ids     idgen.Generator
	now     func() time.Time

	mu    sync.RWMutex
	items map[uuid.UUID]*entry
	order []uuid.UUID
}

// NewLibrary creates an empty Library.
func NewLibrary(cfg LibraryConfig) *Library {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxUploadSize
	}
	if cfg.IDs == nil {
		cfg.IDs = idgen.NewV4()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Library{
		maxSize: cfg.MaxSize,
		ids:     cfg.IDs,
		now:     cfg.Now,
		items:   make(map[uuid.UUID]*entry),
	}
}

// MaxSize returns the upload limit in bytes.
func (l *Library) MaxSize() int64 { return l.maxSize }

// DetectType returns the MIME type of data, falling back to the file
// extension when the content is not recognized.
func DetectType(name string, data []byte) string {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	ct := http.DetectContentType(head)
	if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(name))
	if byExt, ok := extensionTypes[ext]; ok {
		return byExt
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return ct
}

func kindOf(contentType string) (Kind, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage, true
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo, true
	default:
		return "", false
	}
}

// Add stores a copy of data under name. Only images and videos are accepted.
func (l *Library) Add(name string, data []byte) (Item, error) {
	const op = "media.Library.Add"

	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Item{}, errx.E(op, errx.Invalid, errors.New("file name is required"))
	}
	if len(data) == 0 {
		return Item{}, errx.Ef(op, errx.Invalid, "%s is empty", name)
	}
	if int64(len(data)) > l.maxSize {
		return Item{}, errx.Ef(op, errx.TooLarge, "%s exceeds the %d byte upload limit", name, l.maxSize)
	}

	ct := DetectType(name, data)
	kind, ok := kindOf(ct)
	if !ok {
		return Item{}, errx.Ef(op, errx.Invalid, "%s is not an image or video (%s)", name, ct)
	}

	id, err := l.ids.Generate()
	if err != nil {
		return Item{}, errx.E(op, errx.Unavailable, err)
	}

	item := Item{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		Type:       ct,
		Kind:       kind,
		UploadDate: l.now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[id] = &entry{item: item, data: bytes.Clone(data)}
	l.order = append(l.order, id)
	return item, nil
}

// List returns items of kind, newest first. An empty kind lists everything.
func (l *Library) List(kind Kind) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Item, 0, len(l.order))
	for _, id := range slices.Backward(l.order) {
		e := l.items[id]
		if kind == "" || e.item.Kind == kind {
			out = append(out, e.item)
		}
	}
	return out
}

func (l *Library) Get(id uuid.UUID) (Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.items[id]
	if !ok {
		return Item{}, errx.Ef("media.Library.Get", errx.NotFound, "media item not found")
	}
	return e.item, nil
}

// Open returns the item with a seekable reader over its bytes, suitable for
// http.ServeContent range requests.
func (l *Library) Open(id uuid.UUID) (Item, *bytes.Reader, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.items[id]
	if !ok {
		return Item{}, nil, errx.Ef("media.Library.Open", errx.NotFound, "media item not found")
	}
	return e.item, bytes.NewReader(e.data), nil
}

// Delete removes an item and releases its bytes.
func (l *Library) Delete(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.remove(id) {
		return errx.Ef("media.Library.Delete", errx.NotFound, "media item not found")
	}
	return nil
}

// DeleteMany removes every listed item that exists and returns the ids
// actually removed.
func (l *Library) DeleteMany(ids []uuid.UUID) []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if l.remove(id) {
			removed = append(removed, id)
		}
	}
	return removed
}

// remove must be called with mu held.
func (l *Library) remove(id uuid.UUID) bool {
	if _, ok := l.items[id]; !ok {
		return false
	}
	delete(l.items, id)
	l.order = slices.DeleteFunc(l.order, func(v uuid.UUID) bool { return v == id })
	return true
}

// Len reports the number of stored items.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Clear drops every item.
func (l *Library) Clear() []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := l.order
	clear(l.items)
	l.order = nil
	if removed == nil {
		removed = []uuid.UUID{}
	}
	return removed
}
