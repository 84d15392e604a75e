package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Seats   []game.SkillLevel // one computer player per entry, in seat order
	Decks   int
	Seed    int64
	Workers int // 0 means one per CPU, capped at 8
	Logger  *log.Logger
}

// Result is the merged outcome of a simulation
type Result struct {
	Rounds      int
	BySkill     map[game.SkillLevel]*statistics.Statistics
	DealerBusts int
	Reshuffles  int // reshuffles between rounds; the shoe may also reshuffle mid-deal
}

// Overall merges every skill level's statistics
func (r *Result) Overall() *statistics.Statistics {
	all := &statistics.Statistics{}
	for _, skill := range []game.SkillLevel{game.SkillLow, game.SkillMedium, game.SkillHigh} {
		if s, ok := r.BySkill[skill]; ok {
			all.Merge(s)
		}
	}
	return all
}

// Simulator plays all-computer tables to measure the skill levels
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if len(config.Seats) == 0 {
		config.Seats = []game.SkillLevel{game.SkillLow, game.SkillMedium, game.SkillHigh}
	}
	if config.Workers <= 0 {
		config.Workers = min(runtime.NumCPU(), 8)
	}
	return &Simulator{config: config}
}

// Run splits the rounds across workers, each with its own table seeded from
// Seed and its worker index. The result only depends on Seed, Rounds, Seats,
// Decks and the worker count.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if len(s.config.Seats) > game.MaxSeats {
		return nil, fmt.Errorf("at most %d seats, got %d", game.MaxSeats, len(s.config.Seats))
	}

	workers := min(s.config.Workers, s.config.Rounds)
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	results := make([]*Result, workers)
	g, ctx := errgroup.WithContext(ctx)

	for w := range workers {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := s.config.Seed + int64(w)

		g.Go(func() error {
			res, err := s.runWorker(ctx, seed, rounds)
			if err != nil {
				return fmt.Errorf("worker %d (seed %d): %w", w, seed, err)
			}
			results[w] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Result{BySkill: map[game.SkillLevel]*statistics.Statistics{}}
	for _, res := range results {
		merged.Rounds += res.Rounds
		merged.DealerBusts += res.DealerBusts
		merged.Reshuffles += res.Reshuffles
		for skill, stats := range res.BySkill {
			if merged.BySkill[skill] == nil {
				merged.BySkill[skill] = &statistics.Statistics{}
			}
			merged.BySkill[skill].Merge(stats)
		}
	}

	for skill, stats := range merged.BySkill {
		if err := stats.Validate(); err != nil {
			return nil, fmt.Errorf("%s statistics validation failed: %w", skill, err)
		}
	}
	return merged, nil
}

func (s *Simulator) runWorker(ctx context.Context, seed int64, rounds int) (*Result, error) {
	rng := randutil.New(seed)
	table := game.New(rng, game.WithDeckCount(s.config.Decks), game.WithID(fmt.Sprintf("sim-%d", seed)))
	for _, skill := range s.config.Seats {
		if _, err := table.AddComputerPlayer(skill); err != nil {
			return nil, err
		}
	}
	autoplayer := bot.NewAutoplayer(s.config.Logger, bot.NewPolicy(rng))

	res := &Result{BySkill: map[game.SkillLevel]*statistics.Statistics{}}
	for round := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := table.DealRound(); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		report, err := autoplayer.Play(table)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		if report.Dealer != nil && report.Dealer.Busted {
			res.DealerBusts++
		}

		for _, p := range table.Seated() {
			skill, _ := p.Role.Skill()
			stats := res.BySkill[skill]
			if stats == nil {
				stats = &statistics.Statistics{}
				res.BySkill[skill] = stats
			}
			stats.Add(statistics.Outcome{
				Result:   p.Result,
				Position: p.Position,
				Value:    p.Value(),
				Cards:    p.Hand.Len(),
				Seed:     seed,
			})
		}
		res.Rounds++

		reshuffled, err := table.NewRound()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		if reshuffled {
			res.Reshuffles++
		}
	}

	s.config.Logger.Debug("Worker finished", "seed", seed, "rounds", rounds)
	return res, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, res *Result) {
	fmt.Fprintf(w, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Rounds played: %d\n", res.Rounds)
	if res.Rounds > 0 {
		fmt.Fprintf(w, "Dealer busts: %d (%.1f%%)\n", res.DealerBusts, float64(res.DealerBusts)/float64(res.Rounds)*100)
	}
	fmt.Fprintf(w, "Reshuffles: %d\n", res.Reshuffles)

	for _, skill := range []game.SkillLevel{game.SkillLow, game.SkillMedium, game.SkillHigh} {
		stats, ok := res.BySkill[skill]
		if !ok {
			continue
		}
		low, high := stats.ConfidenceInterval95()

		fmt.Fprintf(w, "\n=== %s SKILL ===\n", strings.ToUpper(skill.String()))
		fmt.Fprintf(w, "Hands: %d\n", stats.Rounds)
		fmt.Fprintf(w, "Wins: %d, Blackjacks: %d, Pushes: %d, Losses: %d (busts %d)\n",
			stats.Wins, stats.Blackjacks, stats.Pushes, stats.Losses, stats.Busts)
		fmt.Fprintf(w, "Win rate: %.1f%%, Bust rate: %.1f%%\n", stats.WinRate()*100, stats.BustRate()*100)
		fmt.Fprintf(w, "Mean: %.4f units/hand\n", stats.Mean())
		fmt.Fprintf(w, "Std Error: %.4f units\n", stats.StdError())
		fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/hand\n", low, high)
	}
}
