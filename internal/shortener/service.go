package shortener

import (
	"cmp"
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/idgen"
	"github.com/sundayezeilo/toolbench/sluggen"
)

const (
	DefaultCodeLength     = 6
	MaxCodeLength         = 64
	MinCodeLength         = 3
	MaxURLLength          = 2048
	DefaultCodeMaxRetries = 3
	DefaultBaseURL        = "http://localhost:8080"

	// DirectReferrer labels clicks that carried no Referer header.
	DirectReferrer = "direct"

	topReferrerLimit = 5
)

// ShortenRequest represents the parameters for shortening a URL.
type ShortenRequest struct {
	URL        string
	CustomCode string // Optional: if empty, a code will be generated
}

// Service defines the URL analytics operations.
type Service interface {
	Shorten(ctx context.Context, req ShortenRequest) (Link, error)
	SimulateClick(ctx context.Context, id uuid.UUID) (Link, error)
	Resolve(ctx context.Context, code string, click Click) (string, error)
	List(ctx context.Context) ([]Link, error)
	Get(ctx context.Context, id uuid.UUID) (Link, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, id uuid.UUID) (Stats, error)
}

// service implements the Service interface.
type service struct {
	repo           Repository
	codeGenerator  sluggen.Generator
	codeLength     int
	codeMaxRetries int
	baseURL        string
	ids            idgen.Generator
	now            func() time.Time
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	CodeGenerator  sluggen.Generator
	CodeLength     int
	CodeMaxRetries int    // attempts when generating a unique code (default: 3)
	BaseURL        string // prefix of every short URL (default: http://localhost:8080)
	IDs            idgen.Generator
	Now            func() time.Time
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	codeGen := config.CodeGenerator
	if codeGen == nil {
		codeGen = sluggen.NewBase36()
	}

	codeLength := config.CodeLength
	if codeLength < MinCodeLength || codeLength > MaxCodeLength {
		codeLength = DefaultCodeLength
	}

	retries := config.CodeMaxRetries
	if retries <= 0 {
		retries = DefaultCodeMaxRetries
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	ids := config.IDs
	if ids == nil {
		ids = idgen.NewV4()
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		repo:           repo,
		codeGenerator:  codeGen,
		codeLength:     codeLength,
		codeMaxRetries: retries,
		baseURL:        baseURL,
		ids:            ids,
		now:            now,
	}
}

// Shorten creates a new short link with an optional custom code.
func (s *service) Shorten(ctx context.Context, req ShortenRequest) (Link, error) {
	const op = "shortener.service.Shorten"

	rawURL := strings.TrimSpace(req.URL)
	if err := validateURL(rawURL); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	// Custom code path: validate, check and insert once
	if code := strings.TrimSpace(req.CustomCode); code != "" {
		if err := validateCode(code); err != nil {
			return Link{}, errx.E(op, errx.Invalid, err)
		}

		_, err := s.repo.GetByCode(ctx, code)
		switch {
		case err == nil:
			return Link{}, errx.Ef(op, errx.Conflict, "short code %q is already in use", code)
		case errx.KindOf(err) != errx.NotFound:
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}

		created, err := s.insert(ctx, rawURL, code)
		if err != nil {
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}
		return created, nil
	}

	// Generated code path: retry on conflicts
	for range s.codeMaxRetries {
		code, err := s.codeGenerator.Generate(s.codeLength)
		if err != nil {
			return Link{}, errx.E(op, errx.Unavailable, err)
		}

		created, err := s.insert(ctx, rawURL, code)
		if err == nil {
			return created, nil
		}

		// Retry on conflict, fail on other errors
		if !errx.Is(err, errx.Conflict) {
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}
	}

	return Link{}, errx.E(op, errx.Unavailable,
		errors.New("could not generate unique short code after retries"))
}

func (s *service) insert(ctx context.Context, rawURL, code string) (Link, error) {
	id, err := s.ids.Generate()
	if err != nil {
		return Link{}, errx.E("shortener.service.insert", errx.Unavailable, err)
	}

	shortURL := s.baseURL + "/s/" + code
	qr, err := QRCodeDataURL(shortURL)
	if err != nil {
		return Link{}, errx.E("shortener.service.insert", errx.Internal, err)
	}

	return s.repo.Insert(ctx, Link{
		ID:           id,
		OriginalURL:  rawURL,
		ShortCode:    code,
		ShortURL:     shortURL,
		CreatedAt:    s.now().UTC(),
		QRCode:       qr,
		ClickHistory: []Click{},
	})
}

// SimulateClick records a click with no referrer, as the manual +1 action does.
func (s *service) SimulateClick(ctx context.Context, id uuid.UUID) (Link, error) {
	const op = "shortener.service.SimulateClick"

	link, err := s.repo.RecordClick(ctx, id, Click{Timestamp: s.now().UTC()})
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

// Resolve records a visit of code and returns the target URL.
func (s *service) Resolve(ctx context.Context, code string, click Click) (string, error) {
	const op = "shortener.service.Resolve"

	if code == "" {
		return "", errx.E(op, errx.Invalid, errors.New("short code cannot be empty"))
	}
	if len(code) > MaxCodeLength {
		return "", errx.E(op, errx.NotFound, errors.New("link not found"))
	}

	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}

	if click.Timestamp.IsZero() {
		click.Timestamp = s.now().UTC()
	}
	if _, err := s.repo.RecordClick(ctx, link.ID, click); err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}
	return link.OriginalURL, nil
}

func (s *service) List(ctx context.Context) ([]Link, error) {
	const op = "shortener.service.List"

	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return links, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Link, error) {
	const op = "shortener.service.Get"

	link, err := s.repo.Get(ctx, id)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "shortener.service.Delete"

	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

// Stats aggregates a link's click history by UTC day and by referrer.
func (s *service) Stats(ctx context.Context, id uuid.UUID) (Stats, error) {
	const op = "shortener.service.Stats"

	link, err := s.repo.Get(ctx, id)
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}
	return computeStats(link), nil
}

func computeStats(link Link) Stats {
	stats := Stats{
		LinkID:       link.ID,
		Clicks:       link.Clicks,
		ByDay:        []DayCount{},
		TopReferrers: []ReferrerCount{},
	}

	days := map[string]int{}
	refs := map[string]int{}
	for _, c := range link.ClickHistory {
		days[c.Timestamp.UTC().Format(time.DateOnly)]++

		ref := c.Referrer
		if ref == "" {
			ref = DirectReferrer
		}
		refs[ref]++

		if stats.LastClick == nil || c.Timestamp.After(*stats.LastClick) {
			ts := c.Timestamp
			stats.LastClick = &ts
		}
	}

	for day, n := range days {
		stats.ByDay = append(stats.ByDay, DayCount{Day: day, Clicks: n})
	}
	slices.SortFunc(stats.ByDay, func(a, b DayCount) int {
		return strings.Compare(a.Day, b.Day)
	})

	for ref, n := range refs {
		stats.TopReferrers = append(stats.TopReferrers, ReferrerCount{Referrer: ref, Clicks: n})
	}
	slices.SortFunc(stats.TopReferrers, func(a, b ReferrerCount) int {
		if c := cmp.Compare(b.Clicks, a.Clicks); c != 0 {
			return c
		}
		return strings.Compare(a.Referrer, b.Referrer)
	})
	if len(stats.TopReferrers) > topReferrerLimit {
		stats.TopReferrers = stats.TopReferrers[:topReferrerLimit]
	}

	return stats
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return errors.New("url too long (max 2048 characters)")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must include scheme (http or https)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}

func validateCode(code string) error {
	if code == "" {
		return errors.New("short code cannot be empty")
	}
	if len(code) < MinCodeLength {
		return errors.New("short code too short (minimum 3 characters)")
	}
	if len(code) > MaxCodeLength {
		return errors.New("short code too long (maximum 64 characters)")
	}

	if strings.HasPrefix(code, "-") || strings.HasPrefix(code, "_") ||
		strings.HasSuffix(code, "-") || strings.HasSuffix(code, "_") {
		return errors.New("short code cannot start or end with dash or underscore")
	}

	for _, char := range code {
		if !isValidCodeChar(char) {
			return errors.New("short code contains invalid characters (only alphanumeric, dash, and underscore allowed)")
		}
	}
	return nil
}

func isValidCodeChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}
