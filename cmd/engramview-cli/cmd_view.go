package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/engramhq/engramview/client"
	"github.com/engramhq/engramview/graphview"
)

// traverseFlags are the traversal knobs shared by load and expand.
type traverseFlags struct {
	depth       int
	relations   []string
	categories  []string
	direction   string
	minStrength float64
	maxPaths    int
	maxNodes    int
}

func (f *traverseFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.depth, "depth", 2, "Max traversal depth")
	cmd.Flags().StringSliceVar(&f.relations, "relations", nil, "Restrict to these relation types")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "Restrict to these node categories")
	cmd.Flags().StringVar(&f.direction, "direction", "both", "Traversal direction: outgoing|incoming|both")
	cmd.Flags().Float64Var(&f.minStrength, "min-strength", 0, "Minimum edge strength")
	cmd.Flags().IntVar(&f.maxPaths, "max-paths", 0, "Max paths (0 = backend default)")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "Max nodes (0 = backend default)")
}

func (f *traverseFlags) options() graphview.TraverseOptions {
	return graphview.TraverseOptions{
		MaxDepth:    f.depth,
		Relations:   f.relations,
		Categories:  f.categories,
		Direction:   graphview.Direction(f.direction),
		MinStrength: f.minStrength,
		MaxPaths:    f.maxPaths,
		MaxNodes:    f.maxNodes,
	}
}

// newEngine wires the traversal pipeline against the configured backend.
func newEngine() *graphview.Expander {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	source := client.NewViewSource(apiClient)
	resolver := graphview.NewResolver(source, log)

	return graphview.NewExpander(source, resolver, log)
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Materialize graph views from memory traversals",
	}
	cmd.AddCommand(viewLoadCmd())
	cmd.AddCommand(viewExpandCmd())
	return cmd
}

func viewLoadCmd() *cobra.Command {
	var flags traverseFlags
	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Load a graph view centered on a node",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			g, err := newEngine().Load(context.Background(), args[0], flags.options())
			if err != nil {
				fatal("load", err)
			}
			outputGraph(g)
		},
	}
	flags.register(cmd)
	return cmd
}

func viewExpandCmd() *cobra.Command {
	var flags traverseFlags
	cmd := &cobra.Command{
		Use:   "expand <start> <node>",
		Short: "Load a view from <start>, then expand it around <node>",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			engine := newEngine()
			ctx := context.Background()

			g, err := engine.Load(ctx, args[0], flags.options())
			if err != nil {
				fatal("load", err)
			}

			expandOpts := flags.options()
			expandOpts.MaxDepth = 1
			g, err = engine.Expand(ctx, g, args[1], expandOpts)
			if err != nil {
				fatal("expand", err)
			}
			outputGraph(g)
		},
	}
	flags.register(cmd)
	return cmd
}

// outputGraph renders a graph per the --format flag. Table mode prints
// nodes then edges; quiet mode prints node IDs only.
func outputGraph(g graphview.GraphData) {
	switch flagFmt {
	case "table":
		nodeRows := make([][]string, 0, g.NodeCount())
		for _, n := range g.Nodes() {
			placeholder := ""
			if n.Placeholder {
				placeholder = "yes"
			}
			nodeRows = append(nodeRows, []string{n.ID, string(n.Category), n.Label, placeholder})
		}
		formatTable([]string{"ID", "CATEGORY", "LABEL", "PLACEHOLDER"}, nodeRows)

		fmt.Println()

		edgeRows := make([][]string, 0, g.EdgeCount())
		for _, e := range g.Edges() {
			edgeRows = append(edgeRows, []string{
				e.Source, e.Target, e.Relation,
				string(e.Category),
				strconv.FormatFloat(e.Strength, 'f', 2, 64),
			})
		}
		formatTable([]string{"SOURCE", "TARGET", "RELATION", "CATEGORY", "STRENGTH"}, edgeRows)
	case "quiet":
		for _, id := range g.NodeIDs() {
			formatQuiet(id)
		}
	default:
		formatJSON(g)
	}
}
