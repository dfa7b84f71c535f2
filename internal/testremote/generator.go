package testremote

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/okian/gachastat/internal/domain/model"
)

// Draw shape constants.
const (
	charsPerBatch   = 10
	singlePullEvery = 4 // one in N batches is a single pull
	rarityDivisor   = 1000
	rare5Threshold  = 20  // 2%
	rare4Threshold  = 100 // 8%
	rare3Threshold  = 600 // 50%
	newCharDivisor  = 10
	batchSpacing    = 90 // seconds between batches
	rosterSize      = 40
)

// randInt returns a value in [0, n) using crypto/rand.
func randInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// Generate builds n batches newest first with strictly decreasing timestamps
// ending at until.
func Generate(n int, pools []string, until time.Time) []model.DrawBatch {
	if len(pools) == 0 {
		pools = DefaultConfig().Pools
	}
	out := make([]model.DrawBatch, n)
	ts := until.Unix()
	for i := range out {
		out[i] = generateBatch(ts, pools[randInt(int64(len(pools)))])
		ts -= batchSpacing + randInt(batchSpacing)
	}
	return out
}

func generateBatch(ts int64, pool string) model.DrawBatch {
	size := charsPerBatch
	if randInt(singlePullEvery) == 0 {
		size = 1
	}
	chars := make([]model.DrawResult, size)
	for i := range chars {
		chars[i] = model.DrawResult{
			Name:   "Operator " + strconv.FormatInt(randInt(rosterSize), 10),
			Rarity: generateRarity(),
			IsNew:  randInt(newCharDivisor) == 0,
		}
	}
	return model.DrawBatch{Timestamp: ts, Pool: pool, Characters: chars}
}

// generateRarity picks a rarity tier with a skewed distribution.
func generateRarity() int {
	switch n := randInt(rarityDivisor); {
	case n < rare5Threshold:
		return 5
	case n < rare4Threshold:
		return 4
	case n < rare3Threshold:
		return 3
	default:
		return 2
	}
}
