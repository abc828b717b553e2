// Package mcp exposes the display-mode registry and switch engine over the
// Model Context Protocol so agent tooling can inspect outputs and drive
// mode switches.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/modectl/internal/display"
	"github.com/1broseidon/modectl/internal/mode"
)

const (
	ServerName    = "modectl"
	ServerVersion = "0.1.0"
)

// Service is the registry/engine surface the tools drive.
type Service interface {
	Devices() []*display.Device
	Switch(dev *display.Device, m *mode.Mode) error
	RestoreDesktop(dev *display.Device) error
}

// Server is the MCP server for modectl.
type Server struct {
	mcpServer *mcpsdk.Server
	svc       Service
}

// NewServer creates an MCP server backed by the given service.
func NewServer(svc Service) *Server {
	s := &Server{svc: svc}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List all registered video outputs with their bounds, current mode, and desktop mode.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_modes",
		Description: "List the supported display modes of one output, including how many native descriptors back each mode.",
	}, s.handleListModes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_mode",
		Description: "Switch an output to the given mode. The switch is fully rolled back on failure; the output is never left captured or half-switched.",
	}, s.handleSwitchMode)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_desktop",
		Description: "Restore one output (or all outputs) to its desktop mode.",
	}, s.handleRestoreDesktop)
}

func (s *Server) findDevice(name string) (*display.Device, error) {
	available := make([]string, 0, len(s.svc.Devices()))
	for _, dev := range s.svc.Devices() {
		if dev.Name == name {
			return dev, nil
		}
		available = append(available, dev.Name)
	}
	return nil, fmt.Errorf("unknown output %q; available: %v", name, available)
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	var out ListDisplaysOutput
	for _, dev := range s.svc.Devices() {
		out.Displays = append(out.Displays, DisplayInfo{
			Name:        dev.Name,
			Primary:     dev.Primary,
			X:           dev.Bounds.X,
			Y:           dev.Bounds.Y,
			Width:       dev.Bounds.Width,
			Height:      dev.Bounds.Height,
			CurrentMode: dev.CurrentMode.String(),
			DesktopMode: dev.DesktopMode.String(),
		})
	}
	return nil, out, nil
}

func (s *Server) handleListModes(_ context.Context, _ *mcpsdk.CallToolRequest, args ListModesInput) (*mcpsdk.CallToolResult, ListModesOutput, error) {
	dev, err := s.findDevice(args.Output)
	if err != nil {
		return nil, ListModesOutput{}, err
	}

	out := ListModesOutput{Output: dev.Name}
	for _, m := range dev.Modes {
		out.Modes = append(out.Modes, ModeEntry{
			Width:      m.Width,
			Height:     m.Height,
			RefreshHz:  m.RefreshHz,
			Format:     m.Format.String(),
			Candidates: len(m.Candidates()),
			Current:    m.Equal(dev.CurrentMode),
			Desktop:    m.Equal(dev.DesktopMode),
		})
	}
	return nil, out, nil
}

func (s *Server) handleSwitchMode(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchModeInput) (*mcpsdk.CallToolResult, SwitchModeOutput, error) {
	dev, err := s.findDevice(args.Output)
	if err != nil {
		return nil, SwitchModeOutput{}, err
	}

	width, height, refresh, err := mode.ParseSpec(args.Mode)
	if err != nil {
		return nil, SwitchModeOutput{}, err
	}

	target := dev.FindMode(width, height, refresh)
	if target == nil {
		return nil, SwitchModeOutput{}, fmt.Errorf("output %q does not support mode %s", dev.Name, args.Mode)
	}

	if err := s.svc.Switch(dev, target); err != nil {
		return nil, SwitchModeOutput{}, err
	}
	return nil, SwitchModeOutput{Output: dev.Name, Mode: target.String()}, nil
}

func (s *Server) handleRestoreDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args RestoreDesktopInput) (*mcpsdk.CallToolResult, RestoreDesktopOutput, error) {
	var targets []*display.Device
	if args.Output != "" {
		dev, err := s.findDevice(args.Output)
		if err != nil {
			return nil, RestoreDesktopOutput{}, err
		}
		targets = []*display.Device{dev}
	} else {
		targets = s.svc.Devices()
	}

	var out RestoreDesktopOutput
	for _, dev := range targets {
		if err := s.svc.RestoreDesktop(dev); err != nil {
			return nil, RestoreDesktopOutput{}, err
		}
		out.Restored = append(out.Restored, dev.Name)
	}
	return nil, out, nil
}
