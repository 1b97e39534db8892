package kraken

import (
	"math"
	"strconv"
	"sync"
	"time"
)

// NOTE ~> The largest whole second whose nanosecond value still fits into a signed 64-bit integer.
//  Readings past this point (the year 2262) cannot be represented by the nonce format.
const maxNonceSeconds = math.MaxInt64/int64(time.Second) - 1

//
// Clock is the time source a nonce generator reads from. It exists so that tests can substitute a
// deterministic clock.
//
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

//
// SystemClock reads the operating system's wall clock.
//
var SystemClock Clock = systemClock{}

//
// NonceGenerator produces the per-request nonce. Every value returned by an instance must be
// strictly greater (as an integer) than every value it returned before.
//
type NonceGenerator interface {
	Next() (string, error)
}

//
// MonotonicNonceGenerator derives nonces from the clock as the epoch seconds followed by the
// zero-padded nanoseconds within that second. If the clock stalls or steps backward, it falls back
// to incrementing its previous output. It is safe for concurrent use.
//
type MonotonicNonceGenerator struct {
	mu    *sync.Mutex
	clock Clock
	last  uint64
}

//
// NewNonceGenerator instantiates a generator that reads the provided clock (or the system clock if
// nil is provided).
//
func NewNonceGenerator(clock Clock) *MonotonicNonceGenerator {
	if clock == nil {
		clock = SystemClock
	}

	return &MonotonicNonceGenerator{
		mu:    &sync.Mutex{},
		clock: clock,
	}
}

//
// Next implements the NonceGenerator interface.
//
func (o *MonotonicNonceGenerator) Next() (string, error) {
	now := o.clock.Now()

	//
	// Make sure the reading can be expressed as "<seconds><nanoseconds>".
	//
	secs := now.Unix()
	if secs <= 0 {
		return "", newClockError("clock reading %s precedes the unix epoch", now)
	}

	if secs > maxNonceSeconds {
		return "", newClockError("clock reading %s is too far in the future", now)
	}

	// NOTE ~> secs*1e9 + nanos renders identically to fmt.Sprintf("%d%09d", secs, nanos) because
	//  secs is at least one.
	candidate := uint64(secs)*uint64(time.Second) + uint64(now.Nanosecond())

	//
	// Never hand out a value less than or equal to one we have already handed out.
	//
	o.mu.Lock()
	defer o.mu.Unlock()

	if candidate <= o.last {
		candidate = o.last + 1
	}

	o.last = candidate

	return strconv.FormatUint(candidate, 10), nil
}
