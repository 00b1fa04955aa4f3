package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"mixdeck/internal/search"
	"mixdeck/internal/ui"
)

// runTUI wires the services into the Bubble Tea program and blocks until it exits
func runTUI(parent context.Context, cc *commandContext) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}

	closeLog, err := redirectLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	svc, err := cc.openServices(true)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Recalls arrive on the bus from inside the update loop; run their searches off it
	ctrl := search.NewController(svc.engine, svc.history, svc.bus, func(task func()) { go task() })
	ctrl.Attach(ctx)
	defer ctrl.Detach()

	log.Printf("Creating UI model...")
	model := ui.NewModel(ctx, cfg, svc.bus, ctrl, svc.history, svc.store)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Printf("UI stopped: %v", ctx.Err())
			return nil
		}
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("run ui: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}
