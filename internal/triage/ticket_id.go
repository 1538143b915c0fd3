package triage

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	ticketIDPrefix     = "GRV"
	ticketSuffixLength = 4
	base36Alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var ticketIDPattern = regexp.MustCompile(`^GRV-[A-Z0-9]+-[A-Z0-9]{4}$`)

// Generator produces display ticket ids of the form GRV-<base36 millis>-<4 chars>.
// Uniqueness is probabilistic; the store enforces it.
type Generator struct {
	clock clockwork.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator builds a generator over the given clock and random source.
func NewGenerator(clock clockwork.Clock, rng *rand.Rand) *Generator {
	return &Generator{clock: clock, rng: rng}
}

// NewDefaultGenerator uses the wall clock and a time-seeded PCG source.
func NewDefaultGenerator() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewGenerator(clockwork.NewRealClock(), rand.New(rand.NewPCG(seed, rand.Uint64())))
}

// Generate returns a fresh ticket id.
func (g *Generator) Generate() string {
	millis := g.clock.Now().UnixMilli()
	timestamp := strings.ToUpper(strconv.FormatInt(millis, 36))

	var suffix [ticketSuffixLength]byte
	g.mu.Lock()
	for i := range suffix {
		suffix[i] = base36Alphabet[g.rng.IntN(len(base36Alphabet))]
	}
	g.mu.Unlock()

	return ticketIDPrefix + "-" + timestamp + "-" + string(suffix[:])
}

// ValidTicketID reports whether id has the generated ticket id shape.
func ValidTicketID(id string) bool {
	return ticketIDPattern.MatchString(id)
}
