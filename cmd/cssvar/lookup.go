package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/cssvar/internal/uriutil"
	"bennypowers.dev/cssvar/internal/variables"
)

var lookupRoot string

type lookupJSON struct {
	Variable    variableJSON `json:"variable"`
	Definitions []string     `json:"definitions"`
	Dependents  []string     `json:"dependents"`
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Show the value, definitions and dependents of a variable",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupRoot, "root", ".", "Workspace root to index")
}

func runLookup(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), []string{lookupRoot})
	if err != nil {
		return err
	}
	root := ws.roots[0]
	name := args[0]

	d, ok := ws.index.Lookup(root, name)
	if !ok {
		return fmt.Errorf("%s is not declared in %s", name, root)
	}
	defs := ws.index.Definitions(root, name)
	dependents := ws.index.Dependents(root, name)

	out := cmd.OutOrStdout()
	if asJSON {
		locations := make([]string, 0, len(defs))
		for _, loc := range defs {
			locations = append(locations, location(loc))
		}
		return writeJSON(out, lookupJSON{
			Variable:    toJSON([]*variables.Declaration{d})[0],
			Definitions: locations,
			Dependents:  dependents,
		})
	}

	printDeclaration(out, d)
	fmt.Fprintln(out, "definitions:")
	for _, loc := range defs {
		fmt.Fprintf(out, "  %s\n", location(loc))
	}
	if len(dependents) > 0 {
		fmt.Fprintf(out, "used by: %s\n", strings.Join(dependents, ", "))
	}
	return nil
}

// location renders an editor location as path:line:column, one-based
func location(loc protocol.Location) string {
	return fmt.Sprintf("%s:%d:%d", uriutil.URIToPath(string(loc.URI)), loc.Range.Start.Line+1, loc.Range.Start.Character+1)
}
