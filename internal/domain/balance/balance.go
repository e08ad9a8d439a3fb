// Package balance assigns tournament pairs to the NS and EO lines so
// that the two line handicap averages come out as close as possible.
//
// This is the balanced partition problem. Small fields (n <= 22) are
// solved exhaustively, which guarantees the optimum; larger fields use
// a greedy pass refined by local search. Among equally optimal
// partitions one is chosen at random, so re-running the balance on the
// same field can legitimately seat the pairs differently.
package balance

import (
	"math"
	"math/rand"
	"time"

	"github.com/aubridge/torneos/internal/domain/model"
)

// Default balancing configuration constants.
const (
	defaultExactLimit    = 22    // C(22,11) = 705,432 candidate partitions
	defaultReservoirSize = 500   // tied optima retained for the random pick
	defaultMaxSweeps     = 10000 // local search bound, never reached in practice
	epsilon              = 1e-9  // tolerance for float diff comparisons
)

// Result is the outcome of one balance run. Averages and Difference
// are rounded to 2 decimals to match the printed seating sheets.
type Result struct {
	NS         []model.RatedPair
	EO         []model.RatedPair
	AvgNS      float64
	AvgEO      float64
	Difference float64
}

// Balancer partitions rated pairs into two lines. The zero value is
// not usable; construct with New.
type Balancer struct {
	rng           *rand.Rand
	exactLimit    int
	reservoirSize int
	maxSweeps     int
}

// New creates a Balancer with the given options applied.
func New(opts ...Option) *Balancer {
	b := &Balancer{
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // seating variety, not cryptography
		exactLimit:    defaultExactLimit,
		reservoirSize: defaultReservoirSize,
		maxSweeps:     defaultMaxSweeps,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Balance partitions pairs into NS and EO. NS receives floor(n/2)
// entries, EO the rest. The input slice is not modified.
func (b *Balancer) Balance(pairs []model.RatedPair) Result {
	n := len(pairs)

	if n == 0 {
		return Result{NS: []model.RatedPair{}, EO: []model.RatedPair{}}
	}

	if n == 1 {
		return Result{
			NS:         []model.RatedPair{pairs[0]},
			EO:         []model.RatedPair{},
			AvgNS:      pairs[0].Rating,
			AvgEO:      0,
			Difference: pairs[0].Rating,
		}
	}

	var ns, eo []model.RatedPair
	if n <= b.exactLimit {
		ns, eo = b.exhaustive(pairs)
	} else {
		ns, eo = b.greedy(pairs)
	}

	avgNS := mean(ns)
	avgEO := mean(eo)

	return Result{
		NS:         ns,
		EO:         eo,
		AvgNS:      round2(avgNS),
		AvgEO:      round2(avgEO),
		Difference: round2(math.Abs(avgNS - avgEO)),
	}
}

// exhaustive enumerates every NS index selection of size floor(n/2),
// keeps a bounded reservoir of the tied-optimal ones and picks one
// uniformly. Group orders are shuffled before returning.
func (b *Balancer) exhaustive(pairs []model.RatedPair) (ns, eo []model.RatedPair) {
	n := len(pairs)
	nsSize := n / 2
	eoSize := n - nsSize

	ratings := make([]float64, n)
	total := 0.0
	for i, p := range pairs {
		ratings[i] = p.Rating
		total += p.Rating
	}

	bestDiff := math.Inf(1)
	var reservoir [][]int
	tiesSeen := 0

	// idx walks the C(n, nsSize) combinations in lexicographic order.
	idx := make([]int, nsSize)
	for i := range idx {
		idx[i] = i
	}

	for {
		nsSum := 0.0
		for _, i := range idx {
			nsSum += ratings[i]
		}
		eoSum := total - nsSum
		diff := math.Abs(nsSum/float64(nsSize) - eoSum/float64(eoSize))

		switch {
		case diff < bestDiff-epsilon:
			bestDiff = diff
			reservoir = [][]int{cloneIndices(idx)}
			tiesSeen = 1
		case math.Abs(diff-bestDiff) <= epsilon:
			tiesSeen++
			if len(reservoir) < b.reservoirSize {
				reservoir = append(reservoir, cloneIndices(idx))
			} else if slot := b.rng.Intn(tiesSeen); slot < b.reservoirSize {
				reservoir[slot] = cloneIndices(idx)
			}
		}

		if !nextCombination(idx, n) {
			break
		}
	}

	chosen := reservoir[b.rng.Intn(len(reservoir))]
	inNS := make([]bool, n)
	for _, i := range chosen {
		inNS[i] = true
	}

	ns = make([]model.RatedPair, 0, nsSize)
	eo = make([]model.RatedPair, 0, eoSize)
	for i, p := range pairs {
		if inNS[i] {
			ns = append(ns, p)
		} else {
			eo = append(eo, p)
		}
	}

	b.rng.Shuffle(len(ns), func(i, j int) { ns[i], ns[j] = ns[j], ns[i] })
	b.rng.Shuffle(len(eo), func(i, j int) { eo[i], eo[j] = eo[j], eo[i] })

	return ns, eo
}

// greedy builds an initial size-balanced partition from a shuffled
// order, then improves it by swapping one NS pair with one EO pair as
// long as a swap strictly reduces the average difference.
func (b *Balancer) greedy(pairs []model.RatedPair) (ns, eo []model.RatedPair) {
	n := len(pairs)
	nsTarget := n / 2
	eoTarget := n - nsTarget

	shuffled := make([]model.RatedPair, n)
	copy(shuffled, pairs)
	b.rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	ns = make([]model.RatedPair, 0, nsTarget)
	eo = make([]model.RatedPair, 0, eoTarget)
	nsSum, eoSum := 0.0, 0.0

	for _, p := range shuffled {
		switch {
		case len(ns) >= nsTarget:
			eo = append(eo, p)
			eoSum += p.Rating
		case len(eo) >= eoTarget:
			ns = append(ns, p)
			nsSum += p.Rating
		case nsSum <= eoSum:
			ns = append(ns, p)
			nsSum += p.Rating
		default:
			eo = append(eo, p)
			eoSum += p.Rating
		}
	}

	nsLen := float64(len(ns))
	eoLen := float64(len(eo))

	for sweep := 0; sweep < b.maxSweeps; sweep++ {
		currentDiff := math.Abs(nsSum/nsLen - eoSum/eoLen)
		bestDiff := currentDiff
		bestI, bestJ := -1, -1

		for i := range ns {
			for j := range eo {
				newNSSum := nsSum - ns[i].Rating + eo[j].Rating
				newEOSum := eoSum - eo[j].Rating + ns[i].Rating
				newDiff := math.Abs(newNSSum/nsLen - newEOSum/eoLen)
				if newDiff < bestDiff {
					bestDiff = newDiff
					bestI, bestJ = i, j
				}
			}
		}

		if bestI < 0 {
			break
		}

		nsSum = nsSum - ns[bestI].Rating + eo[bestJ].Rating
		eoSum = eoSum - eo[bestJ].Rating + ns[bestI].Rating
		ns[bestI], eo[bestJ] = eo[bestJ], ns[bestI]
	}

	return ns, eo
}

// nextCombination advances idx to the next k-combination of [0,n) in
// lexicographic order, returning false once the last one was visited.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

func cloneIndices(idx []int) []int {
	out := make([]int, len(idx))
	copy(out, idx)
	return out
}

func mean(group []model.RatedPair) float64 {
	if len(group) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range group {
		sum += p.Rating
	}
	return sum / float64(len(group))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
