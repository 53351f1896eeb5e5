package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/edugrade/portal/core"
)

func main() {
	conf := core.NewConfig()

	apiURL := flag.String("api", "http://"+conf.Server.Host+conf.Server.Address, "Base URL of the EduGrade API.")
	timeout := flag.Duration("timeout", 15*time.Second, "Timeout of each API call.")
	flag.Parse()

	p := tea.NewProgram(newModel(NewClient(*apiURL, *timeout), *timeout), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
