package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"shipment-tracker/internal/core/cache"
)

const (
	waybillKeyPrefix = "waybill:seq"
	waybillSeqTTL    = 48 * time.Hour
	waybillCodeLen   = 3
)

// RedisWaybillGenerator allocates waybill numbers of the form ORGDST-BRN-YYMMDDNNNN
// from a per-route, per-day counter.
type RedisWaybillGenerator struct {
	counter cache.Counter
	now     func() time.Time
}

// NewRedisWaybillGenerator creates a generator on top of the given counter.
func NewRedisWaybillGenerator(counter cache.Counter) *RedisWaybillGenerator {
	return &RedisWaybillGenerator{counter: counter, now: time.Now}
}

// Generate returns the next waybill number for the route and branch.
func (g *RedisWaybillGenerator) Generate(ctx context.Context, origin, destination, branch string) (string, error) {
	route := locationCode(origin) + locationCode(destination)
	brn := locationCode(branch)
	day := g.now().UTC().Format("060102")

	key := fmt.Sprintf("%s:%s:%s:%s", waybillKeyPrefix, route, brn, day)
	seq, err := g.counter.Incr(ctx, key, waybillSeqTTL)
	if err != nil {
		return "", fmt.Errorf("failed to allocate waybill sequence: %w", err)
	}

	return fmt.Sprintf("%s-%s-%s%04d", route, brn, day, seq), nil
}

// locationCode keeps the first three letters of name, upper-cased and padded with X.
func locationCode(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() == waybillCodeLen {
			break
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	for b.Len() < waybillCodeLen {
		b.WriteByte('X')
	}
	return b.String()
}
