package main

import (
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(errorMessage(err)))
		os.Exit(1)
	}
}

// errorMessage turns a command failure into the line shown to the user.
// Backend rejections that call for a session get a sign-in prompt instead of
// the backend's message; everything else is shown as is.
func errorMessage(err error) string {
	if api.IsAuthRequired(err) {
		return "you need to log in or register first: run 'td login' or 'td register'"
	}
	return err.Error()
}
