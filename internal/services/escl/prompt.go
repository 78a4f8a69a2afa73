package escl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// YesNo asks question until it gets an answer. An empty reply or one
// starting with "y" means yes; "n" means no. End of input means no.
func (p *Prompter) YesNo(question string) bool {
	for {
		fmt.Fprintf(p.out, "%s (Y/n): ", question)
		line, err := p.in.ReadString('\n')
		reply := strings.ToLower(strings.TrimSpace(line))
		if err != nil && reply == "" {
			fmt.Fprintln(p.out)
			return false
		}
		switch {
		case reply == "" || strings.HasPrefix(reply, "y"):
			return true
		case strings.HasPrefix(reply, "n"):
			return false
		}
		if err != nil {
			return false
		}
	}
}
