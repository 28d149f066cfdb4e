package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newOutputCmd(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", false, "")
	cmd.SetOut(buf)
	return cmd
}

func TestNewOutput_HonorsColorConfig(t *testing.T) {
	origTerminal := isTerminal
	origColor := colorFromConfig
	defer func() {
		isTerminal = origTerminal
		colorFromConfig = origColor
	}()
	isTerminal = func() bool { return true }

	var buf bytes.Buffer

	colorFromConfig = true
	out := NewOutput(newOutputCmd(&buf))
	out.Success("ok")
	if !strings.Contains(buf.String(), ColorGreen) {
		t.Errorf("color enabled but no escape codes in %q", buf.String())
	}

	buf.Reset()
	colorFromConfig = false
	out = NewOutput(newOutputCmd(&buf))
	out.Success("ok")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("ui.color_enabled=false but output has escape codes: %q", buf.String())
	}
}

func TestNewOutput_JSONModeDisablesColor(t *testing.T) {
	origTerminal := isTerminal
	origColor := colorFromConfig
	defer func() {
		isTerminal = origTerminal
		colorFromConfig = origColor
	}()
	isTerminal = func() bool { return true }
	colorFromConfig = true

	var buf bytes.Buffer
	cmd := newOutputCmd(&buf)
	cmd.Flags().Set("json", "true")

	out := NewOutput(cmd)
	if !out.IsJSON() {
		t.Fatal("json flag not picked up")
	}
	if got := out.ColoredString(ColorGreen, "x"); got != "x" {
		t.Errorf("ColoredString in json mode = %q, want plain", got)
	}
}
