package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neewerctl/neewerctl/pkg/fixture"
	"github.com/neewerctl/neewerctl/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an interactive session against the selected fixture(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures := make(map[string]*fixture.Descriptor)
		for _, f := range app.doc.Fixtures() {
			fixtures[f.Address] = f
		}

		initial := app.selector
		if initial == "" {
			initial = app.settings.DefaultSelector
		}

		sh, err := session.New(fixtures, app.doc.Groups, app.doc, app.conn, app.eng, os.Stdin, os.Stdout, initial)
		if err != nil {
			return err
		}
		return sh.Run(cmd.Context())
	},
}
