package cmd

import (
	"fmt"

	"github.com/simkit/sim-cli/internal/output"
	"github.com/spf13/cobra"
)

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read or write the simulator pasteboard",
	Long: `Read or write the booted simulator's pasteboard. Writing is the
reliable way to move long or non-ASCII text into an app: copy it here,
then long-press paste in the UI instead of typing it key by key.`,
}

var clipboardReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the pasteboard contents",
	Args:  cobra.NoArgs,
	RunE:  runClipboardRead,
}

var clipboardWriteCmd = &cobra.Command{
	Use:   "write <text>",
	Short: "Replace the pasteboard contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runClipboardWrite,
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the pasteboard",
	Args:  cobra.NoArgs,
	RunE:  runClipboardClear,
}

func init() {
	clipboardCmd.AddCommand(clipboardReadCmd)
	clipboardCmd.AddCommand(clipboardWriteCmd)
	clipboardCmd.AddCommand(clipboardClearCmd)
	rootCmd.AddCommand(clipboardCmd)
}

type clipboardReport struct {
	OK     bool   `yaml:"ok"             json:"ok"`
	Action string `yaml:"action"         json:"action"`
	Target string `yaml:"target"         json:"target"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
}

func runClipboardRead(cmd *cobra.Command, args []string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}
	text, err := p.Clipboard.PasteFrom(ctx, target)
	if err != nil {
		return err
	}
	if output.Structured() {
		return output.Print(clipboardReport{OK: true, Action: "clipboard-read", Target: target, Text: text})
	}
	fmt.Println(text)
	return nil
}

func runClipboardWrite(cmd *cobra.Command, args []string) error {
	return writeClipboard("clipboard-write", args[0])
}

func runClipboardClear(cmd *cobra.Command, args []string) error {
	return writeClipboard("clipboard-clear", "")
}

func writeClipboard(actionName, text string) error {
	p := newProvider()
	ctx, cancel := commandContext()
	defer cancel()

	target, err := requireTarget(ctx, p)
	if err != nil {
		return err
	}
	if err := p.Clipboard.CopyTo(ctx, target, text); err != nil {
		return err
	}
	if output.Structured() {
		return output.Print(clipboardReport{OK: true, Action: actionName, Target: target})
	}
	if actionName == "clipboard-clear" {
		fmt.Println("Pasteboard cleared.")
	} else {
		fmt.Printf("Copied %d characters to the pasteboard.\n", len(text))
	}
	return nil
}
