package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
)

// jsonOutput reports whether results should be emitted as JSON: either
// requested explicitly or because stdout is not a terminal.
func jsonOutput(requested bool) bool {
	return requested || !term.IsTerminal(int(os.Stdout.Fd()))
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit JSON")
	fs.Parse(args)

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.close(false)

	type deviceOut struct {
		Name    string `json:"name"`
		Primary bool   `json:"primary"`
		X       int    `json:"x"`
		Y       int    `json:"y"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
		Current string `json:"current_mode"`
		Desktop string `json:"desktop_mode"`
	}
	var out []deviceOut
	for _, dev := range a.devices {
		out = append(out, deviceOut{
			Name:    dev.Name,
			Primary: dev.Primary,
			X:       dev.Bounds.X,
			Y:       dev.Bounds.Y,
			Width:   dev.Bounds.Width,
			Height:  dev.Bounds.Height,
			Current: dev.CurrentMode.String(),
			Desktop: dev.DesktopMode.String(),
		})
	}

	if jsonOutput(*asJSON) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return 0
	}

	for _, d := range out {
		marker := " "
		if d.Primary {
			marker = "*"
		}
		fmt.Printf("%s %-12s %dx%d+%d+%d  current %-24s desktop %s\n",
			marker, d.Name, d.Width, d.Height, d.X, d.Y, d.Current, d.Desktop)
	}
	return 0
}

func runModes(args []string) int {
	fs := flag.NewFlagSet("modes", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit JSON")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: modectl modes <output>")
		return 2
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.close(false)

	dev, err := a.findDevice(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	type modeOut struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RefreshHz  int    `json:"refresh_hz"`
		Format     string `json:"format"`
		Candidates int    `json:"candidates"`
		Current    bool   `json:"current"`
	}
	var out []modeOut
	for _, m := range dev.Modes {
		out = append(out, modeOut{
			Width:      m.Width,
			Height:     m.Height,
			RefreshHz:  m.RefreshHz,
			Format:     m.Format.String(),
			Candidates: len(m.Candidates()),
			Current:    m.Equal(dev.CurrentMode),
		})
	}

	if jsonOutput(*asJSON) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return 0
	}

	for _, m := range out {
		marker := " "
		if m.Current {
			marker = "*"
		}
		refresh := "   ?"
		if m.RefreshHz != 0 {
			refresh = fmt.Sprintf("%4d", m.RefreshHz)
		}
		fmt.Printf("%s %5dx%-5d %s Hz  %-12s (%d descriptors)\n",
			marker, m.Width, m.Height, refresh, m.Format, m.Candidates)
	}
	return 0
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Usage: modectl set <output> [WxH[@Hz]]")
		return 2
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	width, height, refresh, err := resolveModeSpec(cfg, fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.close(false)

	dev, err := a.findDevice(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	target := dev.FindMode(width, height, refresh)
	if target == nil {
		fmt.Fprintf(os.Stderr, "Error: output %q does not support %dx%d", dev.Name, width, height)
		if refresh != 0 {
			fmt.Fprintf(os.Stderr, "@%d", refresh)
		}
		fmt.Fprintln(os.Stderr)
		return 1
	}

	if err := a.engine.Switch(dev, target); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("%s -> %s\n", dev.Name, target)
	return 0
}

func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	all := fs.Bool("all", false, "restore every output")
	fs.Parse(args)
	if !*all && fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: modectl restore <output> | modectl restore --all")
		return 2
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.close(false)

	if !*all {
		dev, err := a.findDevice(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := a.engine.RestoreDesktop(dev); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("%s -> %s\n", dev.Name, dev.DesktopMode)
		return 0
	}

	failed := 0
	for _, dev := range a.devices {
		if err := a.engine.RestoreDesktop(dev); err != nil {
			fmt.Fprintf(os.Stderr, "Error restoring %s: %v\n", dev.Name, err)
			failed++
			continue
		}
		fmt.Printf("%s -> %s\n", dev.Name, dev.DesktopMode)
	}
	if failed > 0 {
		return 1
	}
	return 0
}
