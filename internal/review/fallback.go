package review

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const (
	// FallbackCount is the number of synthetic records generated when no
	// real data is available.
	FallbackCount = 300

	// FallbackTextPrefix marks every synthetic review text.
	FallbackTextPrefix = "Sample review "
)

// Fallback generates the synthetic dataset: one review per day for the
// FallbackCount days before now, ratings drawn from N(3, 1) rounded and
// clamped to [1, 5].
func Fallback(now time.Time, rng *rand.Rand) []Record {
	today := Day(now)
	records := make([]Record, 0, FallbackCount)
	for i := 0; i < FallbackCount; i++ {
		date := today.AddDate(0, 0, -(FallbackCount - i))
		rating := math.Max(1, math.Min(5, math.Round(3+rng.NormFloat64())))
		text := fmt.Sprintf("%s%d", FallbackTextPrefix, i)
		records = append(records, NewRecord(date, rating, text))
	}
	return records
}

// Load derives records from rows and substitutes the fallback dataset when
// nothing usable remains.
func Load(rows []RawRow, source string, now time.Time, rng *rand.Rand) Dataset {
	records, dropped := DeriveRecords(rows)
	if len(records) > 0 {
		return Dataset{Records: records, Source: source, Dropped: dropped}
	}
	return Dataset{
		Records:   Fallback(now, rng),
		Synthetic: true,
		Source:    "synthetic",
		Dropped:   dropped,
	}
}

// NewRand returns a PCG-backed generator. A zero seed uses the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
