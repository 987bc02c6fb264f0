package downsample

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/james-bowman/sparse"

	"github.com/cognicore/cooc/pkg/cooc/internalerr"
	"github.com/cognicore/cooc/pkg/cooc/spmat"
)

// MinTargetFrequency is the floor of the default frequency cap.
const MinTargetFrequency = 200.0

// TargetMaxFrequency returns the default cap for a corpus of ndocs
// documents: max(200, ndocs/30).
func TargetMaxFrequency(ndocs int) float64 {
	return math.Max(MinTargetFrequency, float64(ndocs)/30)
}

// KeepProbability is the chance an occurrence of a word seen count times
// survives downsampling. Words at or under the cap are always kept.
func KeepProbability(count int64, target float64) float64 {
	if count <= 0 || float64(count) <= target {
		return 1
	}
	return math.Min(1, target/float64(count))
}

// Options controls downsampling.
type Options struct {
	// TargetMaxFrequency caps the effective frequency of common words.
	TargetMaxFrequency float64
	// Rand drives the per-occurrence trials. Required.
	Rand *rand.Rand
}

// Stats summarises a downsampling run.
type Stats struct {
	Words   int // words with keep probability below 1
	Dropped int // incidences zeroed out
}

// Downsample thins the incidences of over-frequent words. counts holds the
// lexicon count of each word (indexed like the columns of z). Every incidence
// of a word with keep probability p < 1 is kept with probability p; other
// columns are copied unchanged. z is not modified.
func Downsample(z *sparse.CSC, counts []int64, opts Options) (*sparse.CSC, Stats, error) {
	r, c := z.Dims()
	if len(counts) != c {
		return nil, Stats{}, fmt.Errorf("downsample: %d counts for %d columns: %w", len(counts), c, internalerr.ErrInvalidInput)
	}
	if opts.Rand == nil {
		return nil, Stats{}, fmt.Errorf("downsample: nil random source: %w", internalerr.ErrInvalidInput)
	}

	var stats Stats
	indptr := make([]int, c+1)
	ind := make([]int, 0, z.NNZ())
	data := make([]float64, 0, z.NNZ())

	for j := 0; j < c; j++ {
		rows, vals := spmat.Col(z, j)
		p := KeepProbability(counts[j], opts.TargetMaxFrequency)
		if p < 1 {
			stats.Words++
		}
		for k, i := range rows {
			if p < 1 && opts.Rand.Float64() >= p {
				stats.Dropped++
				continue
			}
			ind = append(ind, i)
			data = append(data, vals[k])
		}
		indptr[j+1] = len(ind)
	}

	return sparse.NewCSC(r, c, indptr, ind, data), stats, nil
}

// NewRand returns a random source for downsampling. A zero seed draws a
// fresh random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
