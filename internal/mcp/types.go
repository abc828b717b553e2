package mcp

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayInfo describes one registered video output.
type DisplayInfo struct {
	Name        string `json:"name"`
	Primary     bool   `json:"primary"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CurrentMode string `json:"current_mode"`
	DesktopMode string `json:"desktop_mode"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayInfo `json:"displays"`
}

// ListModesInput is the input for the list_modes tool.
type ListModesInput struct {
	Output string `json:"output" jsonschema:"required,Name of the output whose modes to list (see list_displays)"`
}

// ModeEntry describes one supported logical mode.
type ModeEntry struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RefreshHz  int    `json:"refresh_hz"`
	Format     string `json:"format"`
	Candidates int    `json:"candidates"`
	Current    bool   `json:"current"`
	Desktop    bool   `json:"desktop"`
}

// ListModesOutput is the output for the list_modes tool.
type ListModesOutput struct {
	Output string      `json:"output"`
	Modes  []ModeEntry `json:"modes"`
}

// SwitchModeInput is the input for the switch_mode tool.
type SwitchModeInput struct {
	Output string `json:"output" jsonschema:"required,Name of the output to switch"`
	Mode   string `json:"mode" jsonschema:"required,Mode spec such as 1920x1080@60 or 1920x1080 (first matching refresh rate)"`
}

// SwitchModeOutput is the output for the switch_mode tool.
type SwitchModeOutput struct {
	Output string `json:"output"`
	Mode   string `json:"mode"`
}

// RestoreDesktopInput is the input for the restore_desktop tool.
type RestoreDesktopInput struct {
	Output string `json:"output,omitempty" jsonschema:"Name of the output to restore. Restores every output when omitted."`
}

// RestoreDesktopOutput is the output for the restore_desktop tool.
type RestoreDesktopOutput struct {
	Restored []string `json:"restored"`
}
