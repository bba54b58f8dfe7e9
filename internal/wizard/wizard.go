// Package wizard holds the interactive prompts of the CLI.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/spboyer/dircheck/internal/profile"
)

// ErrNoProfiles is returned when there is nothing to choose from.
var ErrNoProfiles = errors.New("no profiles available")

// PickProfile asks the user which profile to run and returns its name. With
// a single candidate no question is asked.
func PickProfile(in io.Reader, out io.Writer, profiles []*profile.Profile) (string, error) {
	switch len(profiles) {
	case 0:
		return "", ErrNoProfiles
	case 1:
		return profiles[0].Name, nil
	}

	options := make([]huh.Option[string], 0, len(profiles))
	for _, p := range profiles {
		label := p.Name
		if p.Description != "" {
			label = fmt.Sprintf("%s - %s", p.Name, p.Description)
		}
		options = append(options, huh.NewOption(label, p.Name))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Profile").
				Description("Which set of checks should run?").
				Options(options...).
				Value(&choice),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("profile selection failed: %w", err)
	}
	return choice, nil
}

// IsInteractive reports whether in is a terminal a prompt can be shown on.
func IsInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
