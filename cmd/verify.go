package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/config"
	"github.com/samclaus/squadplanner/verify"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		backend string
		order   string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Click through the role menu and check the active role after every click",
		Long: `Clicks every role button and checks that the clicked button is the only
one marked active and that the planner's active role matches. The run stops at
the first failure. The dom backend uses an in-memory document; the browser
backend runs the menu's own script in Chrome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend == "" {
				backend = a.cfg.Verify.Backend
			}

			roles, err := a.cfg.VerifyOrder()
			if err != nil {
				return err
			}
			if order != "" {
				if roles, err = planner.ParseRoleOrder(order); err != nil {
					return err
				}
			}

			timeout, err := a.cfg.VerifyTimeout()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			page, closePage, err := openPage(ctx, a, backend)
			if err != nil {
				return err
			}
			defer closePage()

			if _, err := verify.New(page, a.logger).Run(ctx, roles); err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), verify.SuccessMessage)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "dom or browser (default from config)")
	cmd.Flags().StringVar(&order, "order", "", "comma separated click order, e.g. A,C,D,P (default menu order)")
	return cmd
}

func openPage(ctx context.Context, a *app, backend string) (verify.Page, func(), error) {
	switch backend {
	case config.BackendDOM:
		page, err := verify.NewFixturePage(a.logger)
		return page, func() {}, err
	case config.BackendBrowser:
		page, err := verify.OpenFixtureBrowserPage(ctx, browserConfig(a.cfg), a.logger)
		if err != nil {
			return nil, nil, err
		}
		return page, func() {
			if err := page.Close(); err != nil {
				a.logger.Sugar().Warnf("Closing browser: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func browserConfig(cfg *config.Config) verify.BrowserConfig {
	return verify.BrowserConfig{
		Headless:   cfg.Verify.Headless,
		ControlURL: cfg.Verify.ControlURL,
		Bin:        cfg.Verify.BrowserBin,
	}
}

// printSuccess prints msg, in green when w is a terminal.
func printSuccess(w io.Writer, msg string) {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintf(w, "\x1b[32m%s\x1b[0m\n", msg)
		return
	}
	fmt.Fprintln(w, msg)
}
