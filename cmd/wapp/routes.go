package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wappdev/wapp/app"
	"github.com/wappdev/wapp/core/storage"
)

var routesJSON bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the resolved route table",
	Long: `Resolve the demo container tree in metadata mode and print every
endpoint. No server is started and no database tables are created, but
collision detection still runs, so a conflicting tree fails here the
same way it would fail on serve.`,
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().BoolVar(&routesJSON, "json", false, "print routes as JSON")
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	root, err := demoTree(storage.NewMemoryStore())
	if err != nil {
		return fmt.Errorf("declare tree: %w", err)
	}

	set, err := app.Metadata(root)
	if err != nil {
		return err
	}

	if routesJSON {
		type routeJSON struct {
			Method string `json:"method"`
			Path   string `json:"path"`
			Source string `json:"source"`
			Name   string `json:"name,omitempty"`
		}
		out := make([]routeJSON, 0, len(set.Endpoints))
		for _, ep := range set.Endpoints {
			out = append(out, routeJSON{Method: ep.Method, Path: ep.Path, Source: ep.Source, Name: ep.Name})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tSOURCE\tNAME")
	for _, ep := range set.Endpoints {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ep.Method, ep.Path, ep.Source, ep.Name)
	}
	return w.Flush()
}
