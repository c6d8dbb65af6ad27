package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Console prints each notification as a single styled line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.Notifier = (*Console)(nil)

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, Render(n))
}

// Render formats n with its level tag.
func Render(n domain.Notification) string {
	var style lipgloss.Style
	tag := "info"
	switch n.Level {
	case domain.LevelSuccess:
		style, tag = successStyle, "ok"
	case domain.LevelWarning:
		style, tag = warningStyle, "warn"
	case domain.LevelError:
		style, tag = errorStyle, "error"
	default:
		style = infoStyle
	}
	return style.Render("["+tag+"]") + " " + n.Message
}
