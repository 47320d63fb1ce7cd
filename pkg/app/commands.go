package app

// pkg/app/commands.go holds the output of the operator commands that do not
// depend on the catalogue itself.

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

// PrintRoutes writes the route table of r.
func PrintRoutes(w io.Writer, r *router.Router) error {
	routes := r.Routes()
	if len(routes) == 0 {
		fmt.Fprintln(w, "No routes registered.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range routes {
		name := ri.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, name)
	}
	return tw.Flush()
}
