// Package decor supplies the decorative filler that tool templates sprinkle
// over generated output: metric figures, percentages, buzzwords and inert
// sample keys. None of it carries meaning.
package decor

import (
	"math"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Provider produces decorative values. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Int returns a value in [min, max].
	Int(min, max int) int
	// Percent returns a value in [min, max] rounded to one decimal.
	Percent(min, max float64) float64
	// Pick returns one of options, or "" when options is empty.
	Pick(options []string) string
	// Phrase returns a short "adjective noun" filler phrase.
	Phrase() string
	// Key returns an inert sample credential such as "sk_demo_4f9a...".
	Key(prefix string) string
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Faker is a Provider backed by gofakeit.
type Faker struct {
	mu sync.Mutex
	f  *gofakeit.Faker
}

// NewFaker returns a Faker. A zero seed draws a random one.
func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

func (p *Faker) Int(min, max int) int {
	if max <= min {
		return min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return min + p.f.IntN(max-min+1)
}

func (p *Faker) Percent(min, max float64) float64 {
	if max <= min {
		return round1(min)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return round1(p.f.Float64Range(min, max))
}

func (p *Faker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return options[p.f.IntN(len(options))]
}

func (p *Faker) Phrase() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.f.Adjective() + " " + p.f.Noun()
}

func (p *Faker) Key(prefix string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(prefix)
	for range 24 {
		b.WriteByte(keyAlphabet[p.f.IntN(len(keyAlphabet))])
	}
	return b.String()
}

// Fixed is a deterministic Provider for tests and reproducible renders: it
// always answers with the lower bound or the first option.
type Fixed struct{}

func (Fixed) Int(min, _ int) int             { return min }
func (Fixed) Percent(min, _ float64) float64 { return round1(min) }
func (Fixed) Phrase() string                 { return "steady growth" }
func (Fixed) Key(prefix string) string       { return prefix + strings.Repeat("x", 24) }
func (Fixed) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[0]
}

// Default is the process-wide provider used when none is injected.
var Default Provider = NewFaker(0)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
