package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/cssvar/internal/color"
)

var colorCmd = &cobra.Command{
	Use:   "color <value>",
	Short: "Normalize a CSS color value",
	Long:  "Print the canonical rgb()/rgba() form and the hex form of a CSS color value.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runColor,
}

type colorJSON struct {
	Input   string `json:"input"`
	IsColor bool   `json:"isColor"`
	Value   string `json:"value"`
	Hex     string `json:"hex,omitempty"`
}

func runColor(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	res := color.Normalize(input)
	hex, _ := color.Hex(res.Value)

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, colorJSON{Input: input, IsColor: res.IsColor, Value: res.Value, Hex: hex})
	}
	if !res.IsColor {
		return fmt.Errorf("%q is not a color", input)
	}
	fmt.Fprintf(out, "%s\n%s\n", res.Value, hex)
	return nil
}
