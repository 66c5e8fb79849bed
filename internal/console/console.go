package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"dhchat/internal/domain"
)

var _ domain.Terminal = (*Console)(nil)

// Console implements domain.Terminal over a reader and writer.
type Console struct {
	outMu sync.Mutex
	out   io.Writer
	rl    *readline.Instance
	next  func() (string, error)

	start     sync.Once
	lines     chan string
	done      chan struct{}
	err       error
	closed    chan struct{}
	closeOnce sync.Once
}

// New returns a Console on stdin and stdout, using readline when stdin is a
// terminal.
func New(stdin *os.File, stdout io.Writer) (*Console, error) {
	fd := stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return NewFromReader(stdin, stdout), nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           stdin,
		Stdout:          stdout,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening terminal")
	}
	c := newConsole(stdout)
	c.rl = rl
	c.next = func() (string, error) {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return line, err
	}
	return c, nil
}

// NewFromReader returns a Console that reads newline-separated lines from r.
func NewFromReader(r io.Reader, w io.Writer) *Console {
	c := newConsole(w)
	sc := bufio.NewScanner(r)
	c.next = func() (string, error) {
		if sc.Scan() {
			return strings.TrimSuffix(sc.Text(), "\r"), nil
		}
		if err := sc.Err(); err != nil {
			return "", errors.Wrap(err, "reading input")
		}
		return "", io.EOF
	}
	return c
}

func newConsole(w io.Writer) *Console {
	return &Console{
		out:    w,
		lines:  make(chan string),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// ReadLine returns the next input line without its line terminator. It
// returns io.EOF once input is exhausted.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	c.start.Do(func() { go c.readLoop() })
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-c.lines:
		return line, nil
	case <-c.done:
		return "", c.err
	}
}

func (c *Console) readLoop() {
	for {
		line, err := c.next()
		if err != nil {
			c.err = err
			close(c.done)
			return
		}
		select {
		case c.lines <- line:
		case <-c.closed:
			return
		}
	}
}

// Deliver prints a received message on its own line.
func (c *Console) Deliver(msg domain.Message) {
	c.Printf("%s\n", msg.Text)
}

// Printf writes to the output without disturbing a pending readline prompt.
func (c *Console) Printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if c.rl != nil {
		c.rl.Clean()
		defer c.rl.Refresh()
	}
	fmt.Fprintf(c.out, format, args...)
}

// Close releases the terminal. A read already blocked on input is not
// interrupted.
func (c *Console) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.rl != nil {
			err = c.rl.Close()
		}
	})
	return err
}

// Ask prints question on its own line and returns the trimmed answer.
func Ask(ctx context.Context, t domain.Terminal, question string) (string, error) {
	t.Printf("%s\n", question)
	line, err := t.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
