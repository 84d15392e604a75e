package tui

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

var (
	// ErrUnknownCommand is returned for input that is not a command
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoHuman is returned when a command needs a human seat and there is none
	ErrNoHuman = errors.New("no human player at the table")
)

// Response is the outcome of one command
type Response struct {
	Lines []string
	Quit  bool
}

// Session runs typed commands against a local game, letting computer
// players and the dealer take their turns after every human action.
type Session struct {
	game       *game.Game
	autoplayer *bot.Autoplayer
	format     Formatter
	logger     *log.Logger
}

// NewSession creates a session for g. Computer decisions draw from rng.
func NewSession(g *game.Game, rng *rand.Rand, format Formatter, logger *log.Logger) *Session {
	return &Session{
		game:       g,
		autoplayer: bot.NewAutoplayer(logger, bot.NewPolicy(rng)),
		format:     format,
		logger:     logger.WithPrefix("session"),
	}
}

// Game returns the game being played
func (s *Session) Game() *game.Game {
	return s.game
}

// Execute parses and runs one line of input
func (s *Session) Execute(input string) (Response, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return Response{}, nil
	}
	action, args := parts[0], parts[1:]
	s.logger.Debug("Processing command", "action", action, "args", args)

	var (
		lines []string
		err   error
	)
	switch action {
	case "deal", "d":
		lines, err = s.deal()
	case "hit", "h":
		lines, err = s.hit()
	case "stand", "s":
		lines, err = s.stand()
	case "add":
		lines, err = s.add(args)
	case "remove", "rm":
		lines, err = s.remove(args)
	case "new", "n":
		lines, err = s.newRound()
	case "advice", "a":
		lines, err = s.advice()
	case "table", "t":
		lines = s.format.Table(s.game)
	case "help", "?":
		lines = helpLines()
	case "quit", "q", "exit":
		return Response{Lines: []string{"Goodbye!"}, Quit: true}, nil
	default:
		return Response{}, fmt.Errorf("%w %q, type 'help' for commands", ErrUnknownCommand, action)
	}
	if err != nil {
		return Response{}, err
	}
	return Response{Lines: lines}, nil
}

// Count summarises the cards revealed this round
func (s *Session) Count() counting.Summary {
	return counting.Summarize(s.game.Revealed(), s.game.Shoe().Remaining())
}

// Advice returns the basic-strategy play for the human whose turn it is
func (s *Session) Advice() *strategy.Advice {
	p := s.game.CurrentPlayer()
	if p == nil || !p.Role.IsHuman() {
		return nil
	}
	up, ok := s.game.UpCard()
	if !ok {
		return nil
	}
	advice := strategy.Recommend(p.Hand, up)
	return &advice
}

// HumanTurn returns the human whose turn it is, or nil
func (s *Session) HumanTurn() *game.Player {
	p := s.game.CurrentPlayer()
	if p == nil || !p.Role.IsHuman() {
		return nil
	}
	return p
}

func (s *Session) deal() ([]string, error) {
	var lines []string
	if s.game.Status == game.StatusFinished {
		reshuffled, err := s.game.NewRound()
		if err != nil {
			return nil, err
		}
		if reshuffled {
			lines = append(lines, s.format.styles.Warning.Render("Shoe reshuffled"))
		}
	}
	if err := s.game.DealRound(); err != nil {
		return nil, err
	}

	lines = append(lines, "", s.format.styles.Header.Render(" *** NEW ROUND *** "))
	lines = append(lines, s.format.Table(s.game)...)
	more, err := s.autoplay()
	if err != nil {
		return nil, err
	}
	return append(lines, more...), nil
}

func (s *Session) hit() ([]string, error) {
	human, err := s.human()
	if err != nil {
		return nil, err
	}
	res, err := s.game.Hit(human.Position)
	if err != nil {
		return nil, err
	}

	var line string
	if res.Busted {
		line = fmt.Sprintf("%s draws %s and busts with %d", human.Name, s.format.Card(res.Card), human.Value())
	} else {
		line = fmt.Sprintf("%s draws %s (%d)", human.Name, s.format.Card(res.Card), human.Value())
	}
	more, err := s.autoplay()
	if err != nil {
		return nil, err
	}
	return append([]string{line}, more...), nil
}

func (s *Session) stand() ([]string, error) {
	human, err := s.human()
	if err != nil {
		return nil, err
	}
	if err := s.game.Stand(human.Position); err != nil {
		return nil, err
	}

	line := fmt.Sprintf("%s stands on %d", human.Name, human.Value())
	more, err := s.autoplay()
	if err != nil {
		return nil, err
	}
	return append([]string{line}, more...), nil
}

func (s *Session) add(args []string) ([]string, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: add <low|medium|high>")
	}
	skill, err := game.ParseSkillLevel(args[0])
	if err != nil {
		return nil, err
	}
	p, err := s.game.AddComputerPlayer(skill)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s sits down at seat %d", p.Name, p.Position)}, nil
}

func (s *Session) remove(args []string) ([]string, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: remove <seat>")
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid seat %q", args[0])
	}
	p, err := s.game.RemovePlayer(position)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s leaves seat %d", p.Name, p.Position)}, nil
}

func (s *Session) newRound() ([]string, error) {
	reshuffled, err := s.game.NewRound()
	if err != nil {
		return nil, err
	}
	lines := []string{}
	if reshuffled {
		lines = append(lines, s.format.styles.Warning.Render("Shoe reshuffled"))
	}
	return append(lines, "Ready for the next round. Type 'deal' to start."), nil
}

func (s *Session) advice() ([]string, error) {
	count := s.Count()
	lines := []string{fmt.Sprintf("Count: running %+d, true %+.1f. %s",
		count.RunningCount, count.TrueCount, count.Advice.Message)}

	human := s.game.Human()
	if human == nil {
		return nil, ErrNoHuman
	}
	up, ok := s.game.UpCard()
	if !ok || human.Hand.Len() < 2 {
		return lines, nil
	}
	advice := strategy.Recommend(human.Hand, up)
	return append(lines, fmt.Sprintf("Basic strategy: %s. %s",
		s.format.styles.Actions.Render(advice.Label), advice.Reason)), nil
}

// autoplay lets computers and the dealer act until the human is needed again
func (s *Session) autoplay() ([]string, error) {
	report, err := s.autoplayer.Play(s.game)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, turn := range report.Turns {
		if len(turn.Drawn) > 0 {
			lines = append(lines, fmt.Sprintf("%s draws %s", turn.Name, s.format.Cards(turn.Drawn)))
		}
		switch turn.Status {
		case game.PlayerBusted:
			lines = append(lines, fmt.Sprintf("%s busts with %d", turn.Name, turn.Value))
		default:
			lines = append(lines, fmt.Sprintf("%s stands on %d", turn.Name, turn.Value))
		}
	}

	if d := report.Dealer; d != nil {
		lines = append(lines, fmt.Sprintf("Dealer reveals %s", s.format.Card(d.HoleCard)))
		if len(d.Drawn) > 0 {
			lines = append(lines, fmt.Sprintf("Dealer draws %s", s.format.Cards(d.Drawn)))
		}
		if d.Busted {
			lines = append(lines, fmt.Sprintf("Dealer busts with %d", d.Value))
		} else {
			lines = append(lines, fmt.Sprintf("Dealer has %d", d.Value))
		}
	}

	switch {
	case s.game.Status == game.StatusFinished:
		lines = append(lines, "", s.format.styles.Header.Render(" *** RESULTS *** "))
		lines = append(lines, s.format.Table(s.game)...)
		lines = append(lines, s.format.styles.Info.Render("Type 'deal' for the next round."))
	case s.HumanTurn() != nil:
		p := s.HumanTurn()
		up, _ := s.game.UpCard()
		lines = append(lines, s.format.styles.Actions.Render(
			fmt.Sprintf("Your turn, %s: %d against %s. hit or stand?", p.Name, p.Value(), up)))
	}
	return lines, nil
}

func (s *Session) human() (*game.Player, error) {
	human := s.game.Human()
	if human == nil {
		return nil, ErrNoHuman
	}
	return human, nil
}

func helpLines() []string {
	return []string{
		"Available commands:",
		"Game Actions:",
		"  deal         - Deal a new round",
		"  hit          - Take another card",
		"  stand        - End your turn",
		"Table:",
		"  add <skill>  - Seat a computer player (low, medium, high)",
		"  remove <seat>- Remove a computer player",
		"  new          - Reset after a finished round",
		"Information:",
		"  advice       - Show the count and the basic-strategy play",
		"  table        - Show every hand",
		"Utility:",
		"  help         - Show this help",
		"  quit         - Quit the game",
	}
}
