package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/session"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/tui"
)

func main() {
	dataPath, err := store.DefaultDataPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	st := store.New(dataPath)
	settings, history, err := st.Load()
	if err != nil {
		// Corrupt snapshot: keep going with defaults.
		fmt.Fprintf(os.Stderr, "warning: %v, starting fresh\n", err)
	}

	engine := session.NewEngine(settings, history, session.SystemClock(), st)

	app := tui.NewApp(engine)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
