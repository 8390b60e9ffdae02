package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <commit>",
		Short: "Show one commit and the files it tracks",
		Long:  `Show a commit by full id or unique prefix, with each tracked file and its blob id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				c, err := r.Show(args[0])
				if err != nil {
					return err
				}

				names := c.Files()
				if printer.IsJSON() {
					view := viewCommit(c)
					view.Files = make(map[string]string, len(names))
					for _, name := range names {
						view.Files[name] = dag.Hex(c.Tracked[name])
					}
					return printer.WriteJSON(view)
				}

				styles := printer.Styles()
				printer.Println(styles.Title.Render("commit " + dag.Hex(c.ID)))
				if len(c.Parents) > 0 {
					parents := make([]string, len(c.Parents))
					for i, p := range c.Parents {
						parents[i] = dag.Short(p, 7)
					}
					printer.KeyValue("Parents", strings.Join(parents, " "))
				}
				printer.KeyValue("Date", c.Time.In(r.Config.Location()).Format(r.Config.Log.DateFormat))
				printer.KeyValue("Message", c.Message)
				printer.Println()
				printer.Banner("Files")
				for _, name := range names {
					printer.Print("%s  %s\n", styles.Dim.Render(dag.Short(c.Tracked[name], 7)), name)
				}
				return nil
			})
		},
	}
}
