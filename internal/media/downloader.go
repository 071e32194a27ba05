package media

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/idgen"
)

const (
	DefaultTick    = 500 * time.Millisecond
	DefaultMinStep = 5
	DefaultMaxStep = 15
	DefaultTTL     = 30 * time.Minute

	DefaultFormat  = "mp4"
	DefaultQuality = "best"
)

var (
	// Formats lists the accepted output formats.
	Formats = []string{"mp4", "webm", "mkv", "mp3", "m4a", "wav"}
	// Qualities lists the accepted quality presets.
	Qualities = []string{"best", "2160p", "1440p", "1080p", "720p", "480p", "360p", "320kbps", "128kbps"}
)

type Status string

const (
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

// Download is the state of one simulated download. Nothing is fetched:
// Simulated is always true and DownloadLink points at a route that
// answers 501.
type Download struct {
	ID           uuid.UUID  `json:"id"`
	URL          string     `json:"url"`
	Format       string     `json:"format"`
	Quality      string     `json:"quality"`
	Progress     int        `json:"progress"`
	Status       Status     `json:"status"`
	DownloadLink string     `json:"downloadLink,omitempty"`
	Simulated    bool       `json:"simulated"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

// Finished reports whether the download stopped advancing.
func (d Download) Finished() bool {
	return d.Status != StatusDownloading
}

// DownloaderConfig holds Downloader dependencies. Zero values get defaults.
type DownloaderConfig struct {
	Tick    time.Duration
	MinStep int
	MaxStep int
	// TTL is how long a finished download stays listed.
	TTL time.Duration
	// LinkPrefix prefixes the mock download link; the download id and
	// "/file" are appended.
	LinkPrefix string

	Decor  decor.Provider
	IDs    idgen.Generator
	Now    func() time.Time
	Logger *slog.Logger
}

type job struct {
	dl   Download
	stop chan struct{}
	done chan struct{}
}

// Downloader advances simulated downloads on a ticker until they reach 100
// or are cancelled.
type Downloader struct {
	cfg    DownloaderConfig
	logger *slog.Logger

	mu     sync.Mutex
	jobs   map[uuid.UUID]*job
	order  []uuid.UUID
	closed bool
	wg     sync.WaitGroup
}

// NewDownloader creates a Downloader.
func NewDownloader(cfg DownloaderConfig) *Downloader {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.MinStep <= 0 {
		cfg.MinStep = DefaultMinStep
	}
	if cfg.MaxStep < cfg.MinStep {
		cfg.MaxStep = max(DefaultMaxStep, cfg.MinStep)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.LinkPrefix == "" {
		cfg.LinkPrefix = "/api/downloads/"
	}
	if cfg.Decor == nil {
		cfg.Decor = decor.Default
	}
	if cfg.IDs == nil {
		cfg.IDs = idgen.NewV4()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Downloader{
		cfg:    cfg,
		logger: logger,
		jobs:   make(map[uuid.UUID]*job),
	}
}

func validateSourceURL(raw string) error {
	if raw == "" {
		return errors.New("url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid url format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}

func choose(value, def string, allowed []string, field string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return def, nil
	}
	if !slices.Contains(allowed, value) {
		return "", errx.Ef("media.Downloader.Start", errx.Invalid,
			"%s must be one of %s", field, strings.Join(allowed, ", "))
	}
	return value, nil
}

// Start validates the request and begins a simulated download.
func (d *Downloader) Start(rawURL, format, quality string) (Download, error) {
	const op = "media.Downloader.Start"

	rawURL = strings.TrimSpace(rawURL)
	if err := validateSourceURL(rawURL); err != nil {
		return Download{}, errx.E(op, errx.Invalid, err)
	}
	format, err := choose(format, DefaultFormat, Formats, "format")
	if err != nil {
		return Download{}, err
	}
	quality, err = choose(quality, DefaultQuality, Qualities, "quality")
	if err != nil {
		return Download{}, err
	}

	id, err := d.cfg.IDs.Generate()
	if err != nil {
		return Download{}, errx.E(op, errx.Unavailable, err)
	}

	j := &job{
		dl: Download{
			ID:        id,
			URL:       rawURL,
			Format:    format,
			Quality:   quality,
			Status:    StatusDownloading,
			Simulated: true,
			StartedAt: d.cfg.Now().UTC(),
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return Download{}, errx.Ef(op, errx.Unavailable, "downloader is shut down")
	}
	d.jobs[id] = j
	d.order = append(d.order, id)
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(j)

	d.logger.Info("simulated download started",
		"download_id", id.String(),
		"url", rawURL,
		"format", format,
		"quality", quality,
	)
	return j.dl, nil
}

func (d *Downloader) run(j *job) {
	defer d.wg.Done()
	defer close(j.done)

	ticker := time.NewTicker(d.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			if d.advance(j) {
				return
			}
		}
	}
}

// advance adds one random step and reports whether the job completed.
func (d *Downloader) advance(j *job) bool {
	step := d.cfg.Decor.Int(d.cfg.MinStep, d.cfg.MaxStep)

	d.mu.Lock()
	defer d.mu.Unlock()

	if j.dl.Finished() {
		return true
	}
	j.dl.Progress = min(100, j.dl.Progress+step)
	if j.dl.Progress < 100 {
		return false
	}

	now := d.cfg.Now().UTC()
	j.dl.Status = StatusCompleted
	j.dl.FinishedAt = &now
	j.dl.DownloadLink = d.cfg.LinkPrefix + j.dl.ID.String() + "/file"
	d.logger.Info("simulated download completed",
		"download_id", j.dl.ID.String(),
	)
	return true
}

// Cancel stops a running download. Cancelling a finished download is a
// no-op that returns its final state.
func (d *Downloader) Cancel(id uuid.UUID) (Download, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	j, ok := d.jobs[id]
	if !ok {
		return Download{}, errx.Ef("media.Downloader.Cancel", errx.NotFound, "download not found")
	}
	if !j.dl.Finished() {
		now := d.cfg.Now().UTC()
		j.dl.Status = StatusCancelled
		j.dl.FinishedAt = &now
		close(j.stop)
	}
	return j.dl, nil
}

func (d *Downloader) Get(id uuid.UUID) (Download, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	j, ok := d.jobs[id]
	if !ok {
		return Download{}, errx.Ef("media.Downloader.Get", errx.NotFound, "download not found")
	}
	return j.dl, nil
}

// List returns every download, newest first.
func (d *Downloader) List() []Download {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Download, 0, len(d.order))
	for _, id := range slices.Backward(d.order) {
		out = append(out, d.jobs[id].dl)
	}
	return out
}

// Wait blocks until the download finishes or ctx is done.
func (d *Downloader) Wait(ctx context.Context, id uuid.UUID) (Download, error) {
	d.mu.Lock()
	j, ok := d.jobs[id]
	d.mu.Unlock()
	if !ok {
		return Download{}, errx.Ef("media.Downloader.Wait", errx.NotFound, "download not found")
	}

	select {
	case <-j.done:
		return d.Get(id)
	case <-ctx.Done():
		return Download{}, errx.E("media.Downloader.Wait", errx.Unavailable, ctx.Err())
	}
}

// Sweep forgets downloads that finished before now-TTL. Running downloads
// are kept. It returns the number removed.
func (d *Downloader) Sweep(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := now.Add(-d.cfg.TTL)
	kept := d.order[:0]
	n := 0
	for _, id := range d.order {
		j := d.jobs[id]
		if j.dl.FinishedAt != nil && j.dl.FinishedAt.Before(cutoff) {
			delete(d.jobs, id)
			n++
			continue
		}
		kept = append(kept, id)
	}
	clear(d.order[len(kept):])
	d.order = kept

	if n > 0 {
		d.logger.Info("finished downloads swept", "count", n)
	}
	return n
}

// Run sweeps finished downloads until ctx is done.
func (d *Downloader) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			d.Sweep(now)
		}
	}
}

// Shutdown cancels every running download and waits for their tickers to
// stop. Later calls to Start fail.
func (d *Downloader) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	for _, j := range d.jobs {
		if !j.dl.Finished() {
			now := d.cfg.Now().UTC()
			j.dl.Status = StatusCancelled
			j.dl.FinishedAt = &now
			close(j.stop)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
