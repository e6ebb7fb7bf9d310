package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp_FixedWidthKeepsLexicographicOrder(t *testing.T) {
	// RFC3339Nano would render these as "...05.1Z" and "...05.15Z", and
	// '1Z' sorts after '15' byte-wise. The fixed-width layout must not.

	base := time.Date(2025, time.March, 1, 12, 0, 5, 0, time.UTC)
	earlier := timestamp(base.Add(100 * time.Millisecond))
	later := timestamp(base.Add(150 * time.Millisecond))

	assert.Len(t, earlier, len(later))
	assert.Less(t, earlier, later)
}

func TestTimestamp_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2025, time.March, 1, 17, 0, 0, 0, loc)
	assert.Equal(t, "2025-03-01T12:00:00.000000000Z", timestamp(at))
}
