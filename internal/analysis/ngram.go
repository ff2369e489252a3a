package analysis

import (
	"sort"
	"strings"

	"github.com/SeamusWaldron/minicube/internal/storage"
)

// NGram is a face sequence that occurs more than once.
type NGram struct {
	N        int      `json:"n"`
	Sequence []string `json:"sequence"`
	Count    int      `json:"count"`
	FirstSeq int      `json:"first_seq"`
}

// TopNGrams returns up to limit face sequences of length n that occur at
// least twice, most frequent first. Ties keep first-occurrence order.
func TopNGrams(turns []storage.TurnRecord, n, limit int) []NGram {
	if n <= 0 || len(turns) < n {
		return nil
	}

	index := make(map[string]int)
	var grams []NGram
	for i := 0; i+n <= len(turns); i++ {
		seq := make([]string, n)
		for j := range seq {
			seq[j] = turns[i+j].Face
		}
		key := strings.Join(seq, " ")
		if k, ok := index[key]; ok {
			grams[k].Count++
			continue
		}
		index[key] = len(grams)
		grams = append(grams, NGram{N: n, Sequence: seq, Count: 1, FirstSeq: turns[i].Seq})
	}

	repeated := grams[:0]
	for _, g := range grams {
		if g.Count >= 2 {
			repeated = append(repeated, g)
		}
	}
	sort.SliceStable(repeated, func(a, b int) bool {
		return repeated[a].Count > repeated[b].Count
	})

	if limit > 0 && len(repeated) > limit {
		repeated = repeated[:limit]
	}
	return repeated
}
