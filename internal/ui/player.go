package ui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/shlex"
)

// PlayerOps launches the configured player for a widget URL
type PlayerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
	command string
}

// NewPlayerOps creates a player that runs command with the URL appended
func NewPlayerOps(command string) *PlayerOps {
	return &PlayerOps{command: command}
}

// SetProgram sets the program reference for terminal management
func (p *PlayerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Command builds the player invocation for url. The command line is split
// with shell quoting rules.
func (p *PlayerOps) Command(url string) (*exec.Cmd, error) {
	args, err := shlex.Split(p.command)
	if err != nil {
		return nil, fmt.Errorf("invalid player command %q: %w", p.command, err)
	}
	if len(args) == 0 {
		return nil, errors.New("no player command configured")
	}
	args = append(args, url)
	return exec.Command(args[0], args[1:]...), nil
}

// Play runs the player in the foreground. The terminal is handed over for the
// duration so terminal players work as well as desktop openers.
func (p *PlayerOps) Play(url string) error {
	if p.program == nil {
		return errNoProgram
	}
	cmd, err := p.Command(url)
	if err != nil {
		return err
	}
	if cmd.Err != nil {
		return fmt.Errorf("player not found: %w", cmd.Err)
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Clear screen to reduce visual artifacts when returning
		fmt.Print("\x1b[2J\x1b[H")
		time.Sleep(150 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	cmd.Stdout = os.Stdout
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
