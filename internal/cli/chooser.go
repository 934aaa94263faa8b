package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/roach88/pcconf/internal/catalog"
)

// Prompt is one question put to the user during a build.
type Prompt struct {
	Category catalog.Category
	Options  []catalog.Record
	Total    catalog.Money
	Hints    []string // what Options had to satisfy given earlier choices

	// Failure is set when the session failed and only restart or quit
	// remain. Options is empty then.
	Failure error
}

// Answer is the user's reply to a Prompt. Exactly one of ID, Restart and
// Quit is meaningful.
type Answer struct {
	ID      string
	Restart bool
	Quit    bool
}

// Chooser asks the user to pick a candidate.
type Chooser interface {
	Choose(ctx context.Context, p Prompt) (Answer, error)
}

// isTerminal reports whether f is an interactive terminal.
var isTerminal = func(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// defaultChooser picks the interactive menu on a terminal and line input
// otherwise.
func defaultChooser(in io.Reader, out io.Writer) Chooser {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return &huhChooser{}
	}
	return newLineChooser(in, out)
}

const (
	answerRestart = ":restart"
	answerQuit    = ":quit"
)

// huhChooser shows a select menu.
type huhChooser struct{}

func (huhChooser) Choose(ctx context.Context, p Prompt) (Answer, error) {
	var options []huh.Option[string]
	sel := huh.NewSelect[string]()
	title := "Session failed: restart or quit?"
	if p.Failure == nil {
		title = fmt.Sprintf("Choose %s (total so far %s)", p.Category, p.Total)
		if len(p.Hints) > 0 {
			sel = sel.Description(strings.Join(p.Hints, "\n"))
		}
		for _, r := range p.Options {
			options = append(options, huh.NewOption(fmt.Sprintf("%-14s %-32s %10s", r.ID, r.Name, r.Price), r.ID))
		}
	}
	options = append(options,
		huh.NewOption("Restart from scratch", answerRestart),
		huh.NewOption("Quit", answerQuit),
	)

	var choice string
	sel = sel.
		Title(title).
		Options(options...).
		Value(&choice)
	if p.Failure != nil {
		sel = sel.Description(p.Failure.Error())
	}

	err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return Answer{Quit: true}, nil
	}
	if err != nil {
		return Answer{}, err
	}
	return parseChoice(choice), nil
}

func parseChoice(choice string) Answer {
	switch choice {
	case answerRestart:
		return Answer{Restart: true}
	case answerQuit:
		return Answer{Quit: true}
	default:
		return Answer{ID: choice}
	}
}

// lineChooser reads answers line by line. An answer is an option number, a
// part id, "r" to restart or "q" to quit. End of input quits.
type lineChooser struct {
	in  *bufio.Scanner
	out io.Writer
}

func newLineChooser(in io.Reader, out io.Writer) *lineChooser {
	return &lineChooser{in: bufio.NewScanner(in), out: out}
}

func (c *lineChooser) Choose(ctx context.Context, p Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	if p.Failure != nil {
		fmt.Fprintf(c.out, "%s %v\n", errorStyle.Render(crossMark), p.Failure)
		fmt.Fprint(c.out, "[r]estart or [q]uit: ")
	} else {
		fmt.Fprintf(c.out, "\n%s (total so far %s)\n", titleStyle.Render("Choose "+p.Category.String()), p.Total)
		for _, h := range p.Hints {
			fmt.Fprintf(c.out, "  %s\n", dimStyle.Render(h))
		}
		for i, r := range p.Options {
			fmt.Fprintf(c.out, "  %2d) %-14s %-32s %10s\n", i+1, r.ID, r.Name, r.Price)
		}
		fmt.Fprint(c.out, "number or id, [r]estart, [q]uit: ")
	}

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return Answer{}, err
		}
		return Answer{Quit: true}, nil
	}
	line := strings.TrimSpace(c.in.Text())

	switch strings.ToLower(line) {
	case "r", "restart":
		return Answer{Restart: true}, nil
	case "q", "quit":
		return Answer{Quit: true}, nil
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(p.Options) {
		return Answer{ID: p.Options[n-1].ID}, nil
	}
	return Answer{ID: line}, nil
}
