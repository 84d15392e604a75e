package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// Outcome is the settled result of one seat in one round
type Outcome struct {
	Result   game.PlayerResult
	Position int   // seat 0-5
	Value    int   // final hand value
	Cards    int   // cards held at the end of the turn
	Seed     int64 // RNG seed of the table that played the round (for replay)
}

// Score converts a result into units won per round: a blackjack pays 3:2, a
// win 1, a push 0 and a loss -1.
func Score(r game.PlayerResult) float64 {
	switch r {
	case game.ResultBlackjackWin:
		return 1.5
	case game.ResultWin:
		return 1
	case game.ResultLose:
		return -1
	case game.ResultPush, game.ResultNone:
		return 0
	default:
		return 0
	}
}

// SeatStats tracks statistics for one seat
type SeatStats struct {
	Rounds    int
	SumScore  float64
	SumScore2 float64
}

// Statistics accumulates outcomes for one player type
type Statistics struct {
	Rounds    int
	SumScore  float64
	SumScore2 float64   // Sum of squares for variance calculation
	Values    []float64 // Every score, for median/percentile calculation

	Wins       int
	Blackjacks int
	Pushes     int
	Losses     int
	Busts      int // losses where the player went over 21
	Hits       int // cards drawn after the initial two

	SeatResults [game.MaxSeats]SeatStats
}

// Mean returns the average score per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumScore / float64(s.Rounds)
}

// Variance returns the sample variance of all scores
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of rounds won, blackjacks included
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins+s.Blackjacks) / float64(s.Rounds)
}

// BustRate returns the fraction of rounds lost by going over 21
func (s *Statistics) BustRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Busts) / float64(s.Rounds)
}

// Add incorporates one settled seat
func (s *Statistics) Add(o Outcome) {
	score := Score(o.Result)
	s.Rounds++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Values = append(s.Values, score)

	switch o.Result {
	case game.ResultWin:
		s.Wins++
	case game.ResultBlackjackWin:
		s.Blackjacks++
	case game.ResultPush:
		s.Pushes++
	case game.ResultLose:
		s.Losses++
		if o.Value > 21 {
			s.Busts++
		}
	case game.ResultNone:
	}
	if o.Cards > 2 {
		s.Hits += o.Cards - 2
	}

	if o.Position >= 0 && o.Position < game.MaxSeats {
		seat := &s.SeatResults[o.Position]
		seat.Rounds++
		seat.SumScore += score
		seat.SumScore2 += score * score
	}
}

// Merge folds other into s. Values are appended in order, so merging worker
// results in a fixed order gives reproducible medians.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumScore += other.SumScore
	s.SumScore2 += other.SumScore2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Blackjacks += other.Blackjacks
	s.Pushes += other.Pushes
	s.Losses += other.Losses
	s.Busts += other.Busts
	s.Hits += other.Hits
	for i := range s.SeatResults {
		s.SeatResults[i].Rounds += other.SeatResults[i].Rounds
		s.SeatResults[i].SumScore += other.SeatResults[i].SumScore
		s.SeatResults[i].SumScore2 += other.SeatResults[i].SumScore2
	}
}

// Median returns the median score
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the score at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// SeatMean returns the mean score for a seat (0-5)
func (s *Statistics) SeatMean(position int) float64 {
	if position < 0 || position >= game.MaxSeats {
		return 0
	}
	seat := s.SeatResults[position]
	if seat.Rounds == 0 {
		return 0
	}
	return seat.SumScore / float64(seat.Rounds)
}

// Validate checks that the tallies agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	settled := s.Wins + s.Blackjacks + s.Pushes + s.Losses
	if settled != s.Rounds {
		return fmt.Errorf("results total (%d) does not match rounds count (%d)", settled, s.Rounds)
	}

	if s.Busts > s.Losses {
		return fmt.Errorf("busts (%d) exceed losses (%d)", s.Busts, s.Losses)
	}

	seatRounds := 0
	for _, seat := range s.SeatResults {
		seatRounds += seat.Rounds
	}
	if seatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match rounds count (%d)", seatRounds, s.Rounds)
	}

	return nil
}
