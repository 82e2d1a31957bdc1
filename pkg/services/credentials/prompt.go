package credentials

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"golang.org/x/term"
)

type promptProvider struct {
	in  *os.File
	out io.Writer
}

// NewPromptProvider asks for the username and a no-echo password on the
// terminal. It yields nothing when in is not a terminal.
func NewPromptProvider(in *os.File, out io.Writer) Provider {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &promptProvider{in: in, out: out}
}

func (p *promptProvider) Name() string { return "prompt" }

func (p *promptProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return domain.Credentials{}, fmt.Errorf("%w: stdin is not a terminal", domain.ErrAuth)
	}

	_, _ = fmt.Fprint(p.out, "CloudView API username: ")
	username, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return domain.Credentials{}, fmt.Errorf("%w: failed to read username: %v", domain.ErrAuth, err)
	}

	_, _ = fmt.Fprint(p.out, "CloudView API password: ")
	password, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: failed to read password: %v", domain.ErrAuth, err)
	}

	return domain.Credentials{
		Username: strings.TrimSpace(username),
		Password: string(password),
	}, nil
}
