package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kelseyhightower/envconfig"

	"github.com/Osmankaankorkmaz/Tonica/timer"
)

type clientConfig struct {
	API      string `envconfig:"TONICA_API" default:"http://localhost:8080/api"`
	Token    string `envconfig:"TONICA_TOKEN"`
	Email    string `envconfig:"TONICA_EMAIL"`
	Password string `envconfig:"TONICA_PASSWORD"`
	TaskID   string `envconfig:"TONICA_TASK"`
}

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	clockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	ctrl   *timer.Controller
	taskID string

	input  textinput.Model
	errMsg string
	width  int
	height int
}

func newModel(ctrl *timer.Controller, taskID string) model {
	ti := textinput.New()
	ti.Placeholder = "25"
	ti.CharLimit = 3
	ti.Width = 6
	ti.Focus()

	return model{ctrl: ctrl, taskID: taskID, input: ti}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tickMsg:
		m.ctrl.Tick(ctx)
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "enter":
			if m.ctrl.State() != timer.StateIdle {
				return m, nil
			}
			m.errMsg = ""
			minutes, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
			if err != nil {
				m.errMsg = "enter minutes between 1 and 240"
				return m, nil
			}
			if err := m.ctrl.Start(ctx, minutes, m.taskID); err != nil {
				m.errMsg = err.Error()
			}
			return m, nil

		case " ", "p":
			switch m.ctrl.State() {
			case timer.StateRunning:
				m.ctrl.Pause(ctx)
			case timer.StatePaused:
				m.ctrl.Resume(ctx)
			}
			return m, nil

		case "r":
			if m.ctrl.State() != timer.StateIdle {
				m.ctrl.Reset()
			}
			return m, nil

		case "c":
			if m.ctrl.SessionID() != "" {
				m.ctrl.Cancel(ctx)
			}
			return m, nil
		}
	}

	if m.ctrl.State() == timer.StateIdle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func progressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return accentStyle.Render(strings.Repeat("█", filled)) +
		faintStyle.Render(strings.Repeat("░", width-filled))
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(accentStyle.Render("TONICA FOCUS"))
	b.WriteString("\n\n")

	state := m.ctrl.State()
	switch state {
	case timer.StateIdle:
		if m.ctrl.Completed() {
			b.WriteString(clockStyle.Render("session completed"))
			b.WriteString("\n\n")
		}
		b.WriteString("minutes: " + m.input.View())
		b.WriteString("\n\n")
		b.WriteString(faintStyle.Render("enter to start"))
	default:
		b.WriteString(clockStyle.Render(formatClock(m.ctrl.TimeLeft())))
		b.WriteString("  " + faintStyle.Render(state.String()))
		b.WriteString("\n\n")
		b.WriteString(progressBar(m.ctrl.RunDuration()-m.ctrl.TimeLeft(), m.ctrl.RunDuration(), 32))
	}

	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("today: %s focused",
		accentStyle.Render(fmt.Sprintf("%d min", m.ctrl.TodayMinutes()))))

	if m.errMsg != "" {
		b.WriteString("\n\n" + errStyle.Render(m.errMsg))
	}

	help := "space pause/resume · r reset · c cancel · q quit"
	b.WriteString("\n\n" + faintStyle.Render(help))

	panel := panelStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

func main() {
	var cfg clientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	token := cfg.Token
	if token == "" {
		if cfg.Email == "" || cfg.Password == "" {
			log.Fatal("set TONICA_TOKEN, or TONICA_EMAIL and TONICA_PASSWORD")
		}
		var err error
		token, err = timer.Login(context.Background(), cfg.API, cfg.Email, cfg.Password)
		if err != nil {
			log.Fatalf("login: %v", err)
		}
	}

	ctrl := timer.NewController(timer.NewClient(cfg.API, token))
	_ = ctrl.RefreshToday(context.Background())

	p := tea.NewProgram(newModel(ctrl, cfg.TaskID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "focustimer: %v\n", err)
		os.Exit(1)
	}
}
