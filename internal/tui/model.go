// Package tui implements the interactive recording screen.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcliao/captains-log/internal/session"
	"github.com/rcliao/captains-log/internal/sound"
	"github.com/rcliao/captains-log/internal/transcript"
)

const unsupportedText = "ERROR: SPEECH RECOGNITION NOT SUPPORTED ON THIS TERMINAL"

// Config holds what the screen needs besides the controller.
type Config struct {
	Language  string
	Folder    string
	ExportDir string
	Notes     transcript.NoteCreator
	Player    *sound.Player
	Now       func() time.Time
	Logger    *slog.Logger
}

// Model is the root bubbletea model for the recording screen.
type Model struct {
	ctrl    *transcript.Controller
	cfg     Config
	changes chan struct{}

	state transcript.State

	// Save prompt
	prompting bool
	title     string

	message    string
	messageErr bool
	messageSeq int

	width  int
	height int
}

// New creates a Model driving ctrl.
func New(ctrl *transcript.Controller, cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	m := Model{
		ctrl:    ctrl,
		cfg:     cfg,
		changes: make(chan struct{}, 1),
		state:   ctrl.Snapshot(),
		width:   80,
		height:  24,
	}
	changes := m.changes
	ctrl.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Init boots the screen and starts listening for controller changes.
func (m Model) Init() tea.Cmd {
	m.ctrl.Boot()
	if m.cfg.Player != nil {
		m.cfg.Player.PlaySequence(sound.Startup)
	}
	return waitForChange(m.changes)
}

// waitForChange blocks until the controller reports a change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return StateChangedMsg{}
	}
}

func (m Model) startCmd() tea.Cmd {
	ctrl, lang := m.ctrl, m.cfg.Language
	return func() tea.Msg {
		if err := ctrl.Start(context.Background(), session.DefaultOptions(lang)); err != nil {
			return ActionErrMsg{Action: "start", Err: err}
		}
		return nil
	}
}

func (m Model) stopCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		if err := ctrl.Stop(); err != nil {
			return ActionErrMsg{Action: "stop", Err: err}
		}
		return nil
	}
}

func (m Model) clearCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		if err := ctrl.ClearTranscription(context.Background()); err != nil {
			return ActionErrMsg{Action: "clear", Err: err}
		}
		return nil
	}
}

func (m Model) exportCmd() tea.Cmd {
	ctrl, dir, now := m.ctrl, m.cfg.ExportDir, m.cfg.Now()
	return func() tea.Msg {
		name, content, err := ctrl.Export(now)
		if err != nil {
			return ExportedMsg{Err: err}
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return ExportedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

func (m Model) saveCmd(title string) tea.Cmd {
	ctrl, notes, folder := m.ctrl, m.cfg.Notes, m.cfg.Folder
	return func() tea.Msg {
		n, err := ctrl.Save(context.Background(), notes, title, nil, folder)
		return SavedMsg{Note: n, Err: err}
	}
}

// clearMessageCmd fires after a delay to clear the footer message.
func clearMessageCmd(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

func (m *Model) flash(text string, isErr bool) tea.Cmd {
	m.messageSeq++
	m.message = text
	m.messageErr = isErr
	return clearMessageCmd(m.messageSeq)
}

func (m Model) beep(t sound.Tone) {
	if m.cfg.Player != nil {
		m.cfg.Player.Play(t)
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateChangedMsg:
		m.state = m.ctrl.Snapshot()
		return m, waitForChange(m.changes)

	case ActionErrMsg:
		m.state = m.ctrl.Snapshot()
		cmd := m.flash(fmt.Sprintf("%s failed: %v", msg.Action, msg.Err), true)
		return m, cmd

	case ExportedMsg:
		if msg.Err != nil {
			cmd := m.flash("export failed: "+msg.Err.Error(), true)
			return m, cmd
		}
		cmd := m.flash("exported "+msg.Path, false)
		return m, cmd

	case SavedMsg:
		m.state = m.ctrl.Snapshot()
		if msg.Err != nil {
			cmd := m.flash("save failed: "+msg.Err.Error(), true)
			return m, cmd
		}
		if m.cfg.Player != nil {
			m.cfg.Player.Announce("log saved", msg.Note.Title)
		}
		cmd := m.flash(fmt.Sprintf("saved %q to %s", msg.Note.Title, msg.Note.Folder), false)
		return m, cmd

	case clearMessageMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
			m.messageErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == KeyCtrlC {
		return m, m.quit()
	}

	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch key {
	case KeyQuit, KeyQuitUpper:
		return m, m.quit()

	case KeySpace:
		if !m.state.Supported {
			return m, nil
		}
		if m.state.Listening {
			m.beep(sound.StopTone)
			return m, m.stopCmd()
		}
		m.beep(sound.StartTone)
		return m, m.startCmd()

	case KeyClear:
		m.beep(sound.ClearTone)
		return m, m.clearCmd()

	case KeyExport:
		if len(m.state.Transcript) == 0 {
			cmd := m.flash("nothing to export", true)
			return m, cmd
		}
		return m, m.exportCmd()

	case KeySave:
		if len(m.state.Transcript) == 0 {
			cmd := m.flash("nothing to save", true)
			return m, cmd
		}
		m.prompting = true
		m.title = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.prompting = false
		return m, nil

	case KeyEnter:
		m.prompting = false
		title := strings.TrimSpace(m.title)
		if title == "" {
			title = "Log " + m.cfg.Now().Format("2006-01-02 15:04")
		}
		return m, m.saveCmd(title)

	case KeyBackspace:
		if r := []rune(m.title); len(r) > 0 {
			m.title = string(r[:len(r)-1])
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeySpace:
		m.title += " "
	case tea.KeyRunes:
		m.title += string(msg.Runes)
	}
	return m, nil
}

func (m Model) quit() tea.Cmd {
	if m.state.Listening {
		if err := m.ctrl.Stop(); err != nil {
			m.cfg.Logger.Warn("stop on quit", "err", err)
		}
	}
	if m.cfg.Player != nil {
		m.cfg.Player.Close()
	}
	return tea.Quit
}
