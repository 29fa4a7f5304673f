package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mini/internal/errors"
	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/mini"
)

func createCmd(opts *globalOptions) *cobra.Command {
	var (
		docPath  string
		selector string
	)

	cmd := &cobra.Command{
		Use:   "create <spec>",
		Short: "Build an element from a single-tag literal",
		Long: `Build an element from a single-tag literal and print its HTML.

With --doc the element is appended to the element matching --selector in
the given HTML file and the whole document is printed.

Examples:
  mini create "<button class='primary' type='submit'>Save</button>"
  mini create "<img src='logo.png' alt='Logo'/>"
  mini create "<li class='item'>New</li>" --doc page.html --selector "ul.todo"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			doc := dom.NewDocument()
			if docPath != "" {
				f, err := os.Open(docPath)
				if err != nil {
					return errors.New("E130").WithDetail("cannot open --doc file").Wrap(err)
				}
				doc, err = dom.Parse(f)
				f.Close()
				if err != nil {
					return errors.New("E130").WithDetail("cannot parse --doc file").Wrap(err)
				}
			}

			el, err := mini.Create(doc, args[0])
			if err != nil {
				return errors.FromError(err, "E100").WithContext(args[0])
			}
			logger.Debug("element created", "tag", el.TagName(), "attributes", len(el.Attributes()))

			w := cmd.OutOrStdout()
			if docPath == "" {
				fmt.Fprintln(w, el.OuterHTML())
				return nil
			}

			parent, err := mini.Select(doc, selector)
			if err != nil {
				return errors.FromError(err, "E102").WithContext(selector)
			}
			parent.Append(el)
			if err := doc.Render(w); err != nil {
				return err
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "HTML file to append the element to")
	cmd.Flags().StringVarP(&selector, "selector", "s", "body", "Selector of the parent element in --doc")

	return cmd
}
