package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/cssvar/internal/dialect"
)

var checkRoot string

var checkCmd = &cobra.Command{
	Use:   "check <file...>",
	Short: "Report var() references to undeclared variables",
	Long:  "Index the workspace root, then report every var() reference in the given documents that names a variable the root does not declare. Exits non-zero when any error-level problem is found.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkRoot, "root", ".", "Workspace root to index")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), []string{checkRoot})
	if err != nil {
		return err
	}
	root := ws.roots[0]
	out := cmd.OutOrStdout()

	failed := false
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, diag := range ws.index.Diagnose(root, dialect.FromPath(path), string(content)) {
			severity := "warning"
			if diag.Severity != nil && *diag.Severity == protocol.DiagnosticSeverityError {
				severity = "error"
				failed = true
			}
			fmt.Fprintf(out, "%s:%d:%d: %s: %s\n", path, diag.Range.Start.Line+1, diag.Range.Start.Character+1, severity, diag.Message)
		}
	}
	if failed {
		return fmt.Errorf("undeclared variables found")
	}
	return nil
}
