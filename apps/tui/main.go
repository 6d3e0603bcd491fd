package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/views"
)

func main() {
	std := log.New(os.Stderr, "TUI : ", log.LstdFlags)

	apiURL := flag.String("api", defaultAPIURL(), "base URL of the API server")
	flag.Parse()

	app := views.NewApp(client.New(*apiURL))
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		std.Fatalf("running program: %v", err)
	}
}

func defaultAPIURL() string {
	if url := os.Getenv("MADRASA_API_URL"); url != "" {
		return url
	}
	return "http://127.0.0.1:8000"
}
