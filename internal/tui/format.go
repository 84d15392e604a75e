package tui

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// recentCards is how many of the last revealed cards the dashboard shows
const recentCards = 8

// Formatter renders table state as styled text. The dealer's hole card is
// never shown before the round finishes.
type Formatter struct {
	styles Styles
}

// NewFormatter creates a formatter using styles
func NewFormatter(styles Styles) Formatter {
	return Formatter{styles: styles}
}

// Card formats a single card, red suits in red
func (f Formatter) Card(c deck.Card) string {
	if c.IsRed() {
		return f.styles.RedCard.Render(c.String())
	}
	return f.styles.BlackCard.Render(c.String())
}

// Cards formats cards as "[A♥ 7♠]"
func (f Formatter) Cards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = f.Card(c)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// Dealer formats the dealer's hand as the table sees it
func (f Formatter) Dealer(g *game.Game) string {
	d := g.Dealer()
	if d == nil || d.Hand.Empty() {
		return "Dealer: " + f.styles.Info.Render("waiting")
	}

	if g.Status == game.StatusFinished {
		line := fmt.Sprintf("Dealer: %s %d", f.Cards(d.Hand.Cards()), d.Value())
		switch {
		case d.Busted():
			line += " " + f.styles.Error.Render("BUST")
		case d.Blackjack():
			line += " " + f.styles.Warning.Render("BLACKJACK")
		}
		return line
	}

	up, _ := d.UpCard()
	hidden := make([]string, d.Hand.Len()-1)
	for i := range hidden {
		hidden[i] = f.styles.Hidden.Render("??")
	}
	cards := append([]string{f.Card(up)}, hidden...)
	return fmt.Sprintf("Dealer: [%s] shows %d", strings.Join(cards, " "), up.Value())
}

// Seat formats one seated player. The current player is marked with ">".
func (f Formatter) Seat(p *game.Player, current bool) string {
	marker := "  "
	if current {
		marker = f.styles.Current.Render("> ")
	}

	line := fmt.Sprintf("%sSeat %d %s", marker, p.Position, p.Name)
	if p.Hand.Empty() {
		return line
	}

	value := fmt.Sprintf("%d", p.Value())
	if p.Soft() && !p.Blackjack() {
		value = "soft " + value
	}
	line += fmt.Sprintf(" %s %s", f.Cards(p.Hand.Cards()), value)

	switch p.Status {
	case game.PlayerBusted:
		line += " " + f.styles.Error.Render("BUST")
	case game.PlayerBlackjack:
		line += " " + f.styles.Warning.Render("BLACKJACK")
	case game.PlayerStood:
		line += " " + f.styles.Info.Render("stood")
	}
	if p.Result != game.ResultNone {
		line += " " + f.Result(p.Result)
	}
	return line
}

// Table formats the dealer then every seat
func (f Formatter) Table(g *game.Game) []string {
	lines := []string{f.Dealer(g)}
	current := g.CurrentPlayer()
	for _, p := range g.Seated() {
		lines = append(lines, f.Seat(p, p == current))
	}
	return lines
}

// Result formats a settled outcome
func (f Formatter) Result(r game.PlayerResult) string {
	switch r {
	case game.ResultBlackjackWin:
		return f.styles.Success.Render("BLACKJACK WIN")
	case game.ResultWin:
		return f.styles.Success.Render("WIN")
	case game.ResultPush:
		return f.styles.Warning.Render("PUSH")
	case game.ResultLose:
		return f.styles.Error.Render("LOSE")
	default:
		return ""
	}
}

// Dashboard formats the count and, when there is one, the basic-strategy
// play for the human's hand.
func (f Formatter) Dashboard(count counting.Summary, advice *strategy.Advice) string {
	var b strings.Builder

	b.WriteString(f.styles.Header.Render(" Count "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Running: %+d\n", count.RunningCount)
	fmt.Fprintf(&b, "True: %+.1f\n", count.TrueCount)
	fmt.Fprintf(&b, "Decks left: %.1f (%d cards)\n", count.DecksRemaining, count.CardsRemaining)

	msg := count.Advice.Message
	switch count.Advice.Advantage {
	case counting.AdvantagePlayer:
		msg = f.styles.Success.Render(msg)
	case counting.AdvantageHouse:
		msg = f.styles.Error.Render(msg)
	default:
		msg = f.styles.Info.Render(msg)
	}
	b.WriteString(msg)
	b.WriteString("\n")

	if recent := count.Recent(recentCards); len(recent) > 0 {
		b.WriteString("Recent: " + f.Cards(recent) + "\n")
	}

	if advice != nil {
		b.WriteString("\n")
		b.WriteString(f.styles.Header.Render(" Advice "))
		b.WriteString("\n")
		b.WriteString(f.styles.Actions.Render(advice.Label))
		b.WriteString("\n")
		b.WriteString(advice.Reason)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
