package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mini/internal/errors"
	"github.com/vango-dev/mini/pkg/ajax"
)

func fetchCmd(opts *globalOptions) *cobra.Command {
	var (
		method  string
		body    string
		fields  []string
		format  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Perform an AJAX request and print the decoded response",
		Long: `Perform a GET or POST request the way the AJAX helper does and print
the decoded body. JSON and XML responses are printed as indented JSON.

--body sends a form-encoded string; --data sends multipart form fields.
Either one turns the request into a POST.

Examples:
  mini fetch https://example.com/status
  mini fetch https://example.com/feed.xml --format xml
  mini fetch https://example.com/login --data user=ada --data pass=secret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			f := cfg.AjaxFormat()
			if format != "" {
				if f, err = ajax.ParseFormat(format); err != nil {
					return errors.New("E130").WithDetail("--format must be text, json or xml").Wrap(err)
				}
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.AjaxTimeout()
			}

			req := ajax.Request{Method: method, Format: f, Sync: true}
			switch {
			case body != "" && len(fields) > 0:
				return errors.New("E130").WithDetail("--body and --data cannot be combined")
			case body != "":
				req.Data = body
			case len(fields) > 0:
				values, err := parseFields(fields)
				if err != nil {
					return err
				}
				req.Data = values
			}

			var out any
			var failure error
			req.Success = func(data any) { out = data }
			req.Fail = func(resp *ajax.Response, status int) {
				failure = errors.New("E110").
					WithDetail(fmt.Sprintf("%s answered with status %d", args[0], status)).
					Wrap(resp.Err)
			}

			client := ajax.NewClient(
				ajax.WithHTTPClient(&http.Client{Timeout: timeout}),
				ajax.WithLogger(logger),
			)
			if err := client.Do(cmd.Context(), args[0], req); err != nil {
				return errors.FromError(err, "E111")
			}
			if failure != nil {
				return failure
			}
			return printResult(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method: GET or POST")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Form-encoded request body")
	cmd.Flags().StringArrayVarP(&fields, "data", "d", nil, "Form field key=value (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Response format: text, json, xml (default from mini.json)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", ajax.DefaultTimeout, "Request timeout (default from mini.json)")

	return cmd
}

// parseFields turns key=value pairs into form values.
func parseFields(fields []string) (url.Values, error) {
	values := url.Values{}
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return nil, errors.New("E130").
				WithDetail(fmt.Sprintf("--data %q is not key=value", f))
		}
		values.Add(k, v)
	}
	return values, nil
}

func printResult(cmd *cobra.Command, data any) error {
	w := cmd.OutOrStdout()
	if s, ok := data.(string); ok {
		fmt.Fprintln(w, s)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
