// Package naming produces the short prefix that the client prepends to every
// outgoing file name, and strips it again from names coming back from the
// service.
//
// The prefix is a best-effort collision reducer for files that share a base
// name on the server. Collisions remain possible and are not detected.
package naming

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// PrefixLength is the exact length of every generated prefix.
const PrefixLength = 5

// Bounds of the random component (both inclusive). The lower bound keeps the
// decimal form at least six digits long, so the last PrefixLength characters
// always exist.
const (
	MinRandom = 100000
	MaxRandom = 99999999
)

// ErrNameTooShort is returned by Strip for names that cannot carry a prefix.
var ErrNameTooShort = errors.New("file name shorter than unique prefix")

// Generator builds unique prefixes from two entropy sources: the clock's
// seconds-of-minute and a uniform random integer in [MinRandom, MaxRandom].
type Generator struct {
	now    func() time.Time
	random func() int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom replaces the random source. fn must return values in
// [MinRandom, MaxRandom].
func WithRandom(fn func() int) Option {
	return func(g *Generator) { g.random = fn }
}

// NewGenerator returns a Generator using time.Now and math/rand/v2 unless
// overridden by opts.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:    time.Now,
		random: defaultRandom,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func defaultRandom() int {
	return MinRandom + rand.IntN(MaxRandom-MinRandom+1)
}

// Generate returns the last PrefixLength digits of random + seconds.
func (g *Generator) Generate() string {
	sum := g.random() + g.now().Second()
	s := strconv.Itoa(sum)
	return s[len(s)-PrefixLength:]
}

// Prefixed returns name with a fresh prefix in front of it.
func (g *Generator) Prefixed(name string) string {
	return g.Generate() + name
}

// Strip removes exactly PrefixLength leading bytes from a wire name.
func Strip(wireName string) (string, error) {
	if len(wireName) < PrefixLength {
		return "", fmt.Errorf("%w: %q", ErrNameTooShort, wireName)
	}
	return wireName[PrefixLength:], nil
}
