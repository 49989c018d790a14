package main

import (
	"github.com/spf13/cobra"

	"github.com/engramhq/engramview/graphview"
)

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print the node and relation color palette",
		Run: func(cmd *cobra.Command, args []string) {
			nodeCats := []graphview.Category{
				graphview.CategoryPerson,
				graphview.CategoryPlace,
				graphview.CategoryEvent,
				graphview.CategoryConcept,
				graphview.CategoryFact,
				graphview.CategoryUnknown,
			}
			relCats := []graphview.RelationCategory{
				graphview.RelationCausal,
				graphview.RelationTemporal,
				graphview.RelationSemantic,
				graphview.RelationReference,
			}

			if flagFmt == "table" {
				rows := make([][]string, 0, len(nodeCats)+len(relCats))
				for _, c := range nodeCats {
					rows = append(rows, []string{"node", string(c), c.Color()})
				}
				for _, c := range relCats {
					rows = append(rows, []string{"relation", string(c), c.Color()})
				}
				formatTable([]string{"KIND", "CATEGORY", "COLOR"}, rows)
				return
			}

			nodes := make(map[graphview.Category]string, len(nodeCats))
			for _, c := range nodeCats {
				nodes[c] = c.Color()
			}
			relations := make(map[graphview.RelationCategory]string, len(relCats))
			for _, c := range relCats {
				relations[c] = c.Color()
			}
			output(map[string]any{
				"nodes":     nodes,
				"relations": relations,
				"fallback":  graphview.FallbackColor,
			}, "")
		},
	}
	// Palette is local; no client setup needed.
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {}
	return cmd
}
