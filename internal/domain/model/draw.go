// Package model contains domain models passed between layers.
package model

// Rarity bounds observed in draw history. Rarity 5 is the rare tier that
// resets a pool's water place.
const (
	MinRarity  = 2
	MaxRarity  = 5
	RareRarity = 5

	// RarityTiers is the number of rarity buckets tracked by statistics.
	RarityTiers = MaxRarity - MinRarity + 1
)

// DrawResult is one item obtained within a batch.
type DrawResult struct {
	Name   string `json:"name"`
	Rarity int    `json:"rarity"`
	IsNew  bool   `json:"isNew"`
}

// IsRare reports whether the draw hit the rare tier.
func (r DrawResult) IsRare() bool { return r.Rarity == RareRarity }

// DrawBatch is one pull as recorded by the remote service. Timestamp is the
// unique key: re-ingesting a batch with a known timestamp replaces it.
type DrawBatch struct {
	Timestamp  int64        `json:"ts"`
	Pool       string       `json:"pool"`
	Characters []DrawResult `json:"chars"`
}

// DrawEvent is a single draw paired with its parent batch's timestamp and pool.
type DrawEvent struct {
	Timestamp int64      `json:"timestamp"`
	Pool      string     `json:"pool"`
	Character DrawResult `json:"character"`
}

// Explode turns a batch into one event per drawn item, in batch order.
func (b DrawBatch) Explode() []DrawEvent {
	events := make([]DrawEvent, 0, len(b.Characters))
	for _, c := range b.Characters {
		events = append(events, DrawEvent{
			Timestamp: b.Timestamp,
			Pool:      b.Pool,
			Character: c,
		})
	}
	return events
}

// Flatten explodes batches preserving batch order, then intra-batch order.
func Flatten(batches []DrawBatch) []DrawEvent {
	n := 0
	for _, b := range batches {
		n += len(b.Characters)
	}
	events := make([]DrawEvent, 0, n)
	for _, b := range batches {
		events = append(events, b.Explode()...)
	}
	return events
}

// Page is one page of remote history. TotalPages is derived from the
// remote item count and is only meaningful on the first page of a run.
type Page struct {
	Batches    []DrawBatch
	Current    int
	TotalPages int
}

// Credential is the phone/password pair used for the token exchange.
type Credential struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}
