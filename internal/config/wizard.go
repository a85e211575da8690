package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to smartcalc! Let's configure your client.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Service URL.
	urlPrompt := promptui.Prompt{
		Label:   "SmartCalc service URL",
		Default: cfg.APIURL,
		Validate: func(s string) error {
			candidate := *cfg
			candidate.APIURL = s
			return candidate.Validate()
		},
	}
	apiURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("service url: %w", err)
	}
	cfg.APIURL = apiURL

	// 2. Theme.
	themePrompt := promptui.Select{
		Label: "Select theme",
		Items: []string{"dark", "light"},
	}
	_, cfg.Theme, err = themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	// 3. Angle mode.
	anglePrompt := promptui.Select{
		Label: "Default angle mode for trigonometry",
		Items: angleModeLabels(),
	}
	angleIdx, _, err := anglePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("angle mode selection: %w", err)
	}
	cfg.AngleMode = angleModeChoices[angleIdx].mode

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Directory for history and preferences",
		Default: cfg.DataDir,
	}
	cfg.DataDir, err = dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 5. Bridge port.
	portPrompt := promptui.Prompt{
		Label:   "Port for smartcalc serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			_, err := parsePort(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = parsePort(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

var angleModeChoices = []struct{ mode, name string }{
	{"DEG", "degrees"},
	{"RAD", "radians"},
	{"GRAD", "gradians"},
}

func angleModeLabels() []string {
	labels := make([]string, len(angleModeChoices))
	for i, c := range angleModeChoices {
		labels[i] = fmt.Sprintf("%-4s - %s", c.mode, c.name)
	}
	return labels
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("port must be a number between 1 and 65535")
	}
	return port, nil
}
