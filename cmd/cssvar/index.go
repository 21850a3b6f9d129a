package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/cssvar/internal/variables"
)

var indexCmd = &cobra.Command{
	Use:   "index [root...]",
	Short: "Index workspace roots and list their variables",
	Long:  "Index each root (default: the current directory) using its .cssvarrc or package.json configuration, then list every variable with its value and color.",
	RunE:  runIndex,
}

type variableJSON struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Resolved string `json:"resolved,omitempty"`
	Color    string `json:"color,omitempty"`
	Theme    string `json:"theme,omitempty"`
	File     string `json:"file"`
	Line     uint32 `json:"line"`
}

type indexJSON struct {
	Root      string         `json:"root"`
	Variables []variableJSON `json:"variables"`
	Watch     []string       `json:"watch"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if asJSON {
		results := make([]indexJSON, 0, len(ws.roots))
		for _, root := range ws.roots {
			results = append(results, indexJSON{
				Root:      root,
				Variables: toJSON(ws.index.Variables(root)),
				Watch:     ws.index.WatchSet(root),
			})
		}
		return writeJSON(out, results)
	}

	for _, root := range ws.roots {
		vars := ws.index.Variables(root)
		fmt.Fprintf(out, "%s: %d variable(s) in %d file(s)\n", root, len(vars), len(ws.index.WatchSet(root)))
		for _, d := range vars {
			printDeclaration(out, d)
		}
	}
	for _, path := range ws.errorPaths {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s\n", path)
	}
	return nil
}

func printDeclaration(out io.Writer, d *variables.Declaration) {
	line := fmt.Sprintf("  %s: %s", d.Name, d.RawValue)
	if d.ResolvedValue != "" {
		line += " -> " + d.ResolvedValue
	}
	if d.Color != "" {
		line += " [" + d.Color + "]"
	}
	if d.Theme != "" {
		line += " (" + d.Theme + ")"
	}
	fmt.Fprintf(out, "%s  %s:%d\n", line, d.SourceFile, d.Range.Start.Line+1)
}

func toJSON(decls []*variables.Declaration) []variableJSON {
	out := make([]variableJSON, 0, len(decls))
	for _, d := range decls {
		out = append(out, variableJSON{
			Name:     d.Name,
			Value:    d.RawValue,
			Resolved: d.ResolvedValue,
			Color:    d.Color,
			Theme:    d.Theme,
			File:     d.SourceFile,
			Line:     d.Range.Start.Line + 1,
		})
	}
	return out
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
