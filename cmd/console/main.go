package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/config"
	"github.com/campushub/cafe/internal/tui"
)

func main() {
	cfg := config.Load()

	// the terminal belongs to the UI; service logs go to a file when asked
	log.SetOutput(io.Discard)
	if path := os.Getenv("CAFE_CONSOLE_LOG"); path != "" {
		f, err := tea.LogToFile(path, "console")
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	newClient := func() *backend.Client {
		return backend.NewClient(cfg.CafeAPIURL, cfg.APITimeout)
	}

	p := tea.NewProgram(tui.New(newClient, cfg.APITimeout))
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
