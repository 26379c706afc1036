package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter reads one answer per line. When echo is set, each answer is
// written back after its prompt so piped sessions read like a terminal.
type prompter struct {
	in   *bufio.Scanner
	out  io.Writer
	echo bool
}

func newPrompter(r io.Reader, w io.Writer, echo bool) *prompter {
	return &prompter{in: bufio.NewScanner(r), out: w, echo: echo}
}

func (p *prompter) say(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// ask prints label and returns the trimmed answer. End of input yields
// io.EOF.
func (p *prompter) ask(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if p.echo {
			_, _ = fmt.Fprintln(p.out)
		}
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	answer := strings.TrimSpace(p.in.Text())
	if p.echo {
		_, _ = fmt.Fprintln(p.out, answer)
	}
	return answer, nil
}

// askInt re-prompts until the answer is an integer. invalid is printed
// after every rejected answer.
func (p *prompter) askInt(label, invalid string) (int, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		p.say("%s", invalid)
	}
}

// yes reports whether answer is an explicit "oui".
func yes(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "oui")
}
