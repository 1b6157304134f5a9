// Package report prints broadcast progress for a human reading the terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/tgcast/pkg/domain"
	"github.com/dskvich/tgcast/pkg/telegram"
)

const rulerWidth = 50

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	hintColor = color.New(color.FgYellow)
	faint     = color.New(color.Faint)
)

type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) ReadingDestinations(path string) {
	fmt.Fprintf(c.out, "Reading destinations from %s\n", path)
}

func (c *Console) DestinationsFound(n int) {
	okColor.Fprintf(c.out, "✓ destinations found: %d\n\n", n)
}

func (c *Console) ReadingMessage(path string) {
	fmt.Fprintf(c.out, "Reading message from %s\n\n", path)
}

func (c *Console) Sending(i, total int, dest domain.Destination) {
	faint.Fprintf(c.out, "[%d/%d] ", i, total)
	fmt.Fprintf(c.out, "sending to %s\n", dest)
}

// Delivered prints the outcome of one delivery followed by any remediation hints.
func (c *Console) Delivered(dest domain.Destination, err error) {
	defer fmt.Fprintln(c.out)

	if err == nil {
		okColor.Fprintf(c.out, "✓ message sent to %s\n", dest)
		return
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		failColor.Fprintf(c.out, "✗ error %s: %s\n", telegram.APIErrorCode(apiErr), apiErr.Message)
	} else {
		failColor.Fprintf(c.out, "✗ sending failed: %v\n", err)
	}

	for _, hint := range telegram.Hints(dest, err) {
		hintColor.Fprintf(c.out, "  hint: %s\n", hint)
	}
}

func (c *Console) Summary(s domain.Summary) {
	ruler := strings.Repeat("=", rulerWidth)
	fmt.Fprintln(c.out, ruler)
	okColor.Fprintf(c.out, "✓ sent: %d\n", s.Succeeded)
	if s.Failed > 0 {
		failColor.Fprintf(c.out, "✗ failed: %d\n", s.Failed)
	}
	fmt.Fprintln(c.out, ruler)
}
