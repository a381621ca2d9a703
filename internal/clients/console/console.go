package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Client is the terminal the menu talks to. Prompts go to out, answers come
// from in; passwords are read without echo when in is a real terminal.
type Client struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func New() *Client {
	return &Client{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

func (c *Client) Print(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Client) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrap(err, "read line")
	}
	return strings.TrimSpace(line), nil
}

func (c *Client) ReadPassword(prompt string) (string, error) {
	if !term.IsTerminal(c.fd) {
		return c.ReadLine(prompt)
	}

	fmt.Fprint(c.out, prompt)
	raw, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(raw), nil
}
