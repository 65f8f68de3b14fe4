// Package terminal handles confirmation prompts and TTY detection.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// answers maps accepted spellings to an option.
var answers = map[string]string{
	"y": "y", "yes": "y",
	"n": "n", "no": "n",
}

// maxAttempts is the number of invalid answers accepted before giving up.
const maxAttempts = 3

var (
	ErrActionAborted = errors.New("action aborted")
	ErrNotTTY        = errors.New("not a terminal")
)

// Option is an option function for the terminal.
type Option func(*Term)

// Term reads answers from a reader and writes prompts to a writer.
type Term struct {
	reader io.Reader
	writer io.Writer
}

// WithReader sets the reader for the terminal.
func WithReader(r io.Reader) Option {
	return func(t *Term) {
		t.reader = r
	}
}

// WithWriter sets the writer for the terminal.
func WithWriter(w io.Writer) Option {
	return func(t *Term) {
		t.writer = w
	}
}

// New returns a terminal reading stdin and writing stderr.
func New(opts ...Option) *Term {
	t := &Term{reader: os.Stdin, writer: os.Stderr}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// IsInteractive reports whether the reader is a terminal.
func (t *Term) IsInteractive() bool {
	f, ok := t.reader.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Confirm asks a yes/no question. An empty answer selects def.
func (t *Term) Confirm(q, def string) bool {
	return t.ConfirmErr(q, def) == nil
}

// ConfirmErr asks a yes/no question and returns ErrActionAborted unless the
// answer is yes.
func (t *Term) ConfirmErr(q, def string) error {
	if len(def) > 1 {
		def = def[:1]
	}

	opts := []string{"y", "n"}
	if !slices.Contains(opts, def) {
		def = "n"
	}

	chosen := t.choose(q, opts, def)
	if !strings.EqualFold(chosen, "y") {
		return ErrActionAborted
	}

	return nil
}

// choose prompts until one of opts is entered. It returns "" after
// maxAttempts invalid answers or when input ends.
func (t *Term) choose(q string, opts []string, def string) string {
	shown := make([]string, 0, len(opts))
	for _, o := range opts {
		if o == def {
			o = strings.ToUpper(o)
		}
		shown = append(shown, o)
	}

	p := fmt.Sprintf("%s [%s]: ", q, strings.Join(shown, "/"))
	r := bufio.NewReader(t.reader)

	for range maxAttempts {
		fmt.Fprint(t.writer, p)

		s, err := r.ReadString('\n')
		if err != nil && s == "" {
			slog.Debug("reading answer", "error", err)
			return ""
		}

		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return def
		}

		if a, ok := answers[s]; ok && slices.Contains(opts, a) {
			return a
		}

		fmt.Fprintf(t.writer, "invalid response, use one of: %s\n", strings.Join(opts, ", "))
	}

	return ""
}
