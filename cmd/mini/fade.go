package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mini/internal/errors"
	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/fx"
	"github.com/vango-dev/mini/pkg/loop"
	"github.com/vango-dev/mini/pkg/mini"
)

func fadeCmd(opts *globalOptions) *cobra.Command {
	var (
		dir   string
		speed time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fade <spec>",
		Short: "Run a fade on an element and log each step",
		Long: `Build an element from a single-tag literal, fade it in or out on a
real event loop and log every opacity change. The final HTML is printed
when the fade completes.

Examples:
  mini fade "<div class='toast'>Saved</div>"
  mini fade "<div style='display: block'>Bye</div>" --dir out --speed 50ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if dir != "in" && dir != "out" {
				return errors.New("E130").WithDetail("--dir must be in or out")
			}
			if !cmd.Flags().Changed("speed") {
				speed = cfg.FadeSpeed()
			}
			if speed <= 0 {
				return errors.New("E130").WithDetail("--speed must be positive")
			}

			doc := dom.NewDocument()
			el, err := mini.Create(doc, args[0])
			if err != nil {
				return errors.FromError(err, "E100").WithContext(args[0])
			}
			doc.Body().AppendChild(el)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			html, err := runFade(ctx, doc, el, dir == "out", speed, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "in", "Direction: in or out")
	cmd.Flags().DurationVar(&speed, "speed", fx.DefaultSpeed, "Tick interval (default from mini.json)")

	return cmd
}

// runFade fades el on a fresh loop and returns its outer HTML once the
// fade completes.
func runFade(ctx context.Context, doc *dom.Document, el *dom.Element, out bool, speed time.Duration, logger *slog.Logger) (string, error) {
	l := loop.New(loop.WithLogger(logger))
	defer l.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.Run(ctx)

	result := make(chan string, 1)
	l.Dispatch(func() {
		step := 0
		doc.Observe(func(m dom.Mutation) {
			if m.Target != el || m.Name != "style" {
				return
			}
			step++
			logger.Info("style",
				"step", step,
				"opacity", el.Style().Opacity(),
				"display", el.Style().Display())
		})

		m := mini.Wrap(el, mini.WithAnimator(fx.New(l)))
		finish := func() { result <- el.OuterHTML() }

		if out {
			m.FadeOut(fx.Speed(speed), fx.OnComplete(finish))
			return
		}
		if el.Style().Display() == dom.DisplayBlock {
			logger.Warn("element is already shown; fade in does nothing")
			finish()
			return
		}
		m.FadeIn(fx.Speed(speed), fx.OnComplete(finish))
	})

	select {
	case html := <-result:
		return html, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
