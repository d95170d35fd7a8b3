// Package smoke collects failure reports from live pages: it drives a
// headless browser over the configured targets and captures uncaught
// exceptions and console errors as raw failure text.
//
// It only produces reports for the engine; it never executes the tests the
// engine synthesizes.
package smoke

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"
)

// Report is one captured failure, ready for the engine.
type Report struct {
	Text    string
	Context map[string]string
}

// Options tunes a collection run.
type Options struct {
	Timeout  time.Duration // per-target budget; 0 means 30s
	Settle   time.Duration // wait after load for async errors; 0 means 2s
	Parallel int           // concurrent targets; 0 means 1
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Settle <= 0 {
		o.Settle = 2 * time.Second
	}
	if o.Parallel <= 0 {
		o.Parallel = 1
	}
	return o
}

// Collect visits every target and returns the captured failures. One
// unreachable target fails the whole run; page-level errors are the payload,
// not a failure of the run.
func Collect(ctx context.Context, targets []string, opts Options) ([]Report, error) {
	opts = opts.withDefaults()

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	var mu sync.Mutex
	var reports []Report

	g, gctx := errgroup.WithContext(allocCtx)
	g.SetLimit(opts.Parallel)
	for _, target := range targets {
		g.Go(func() error {
			page, err := visit(gctx, target, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, page...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func visit(ctx context.Context, target string, opts Options) ([]Report, error) {
	tctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	browserCtx, browserCancel := chromedp.NewContext(tctx)
	defer browserCancel()

	var mu sync.Mutex
	var reports []Report
	record := func(text, source string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		mu.Lock()
		reports = append(reports, Report{
			Text:    text,
			Context: map[string]string{"url": target, "source": source},
		})
		mu.Unlock()
	}

	chromedp.ListenTarget(browserCtx, func(ev any) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			record(exceptionText(e.ExceptionDetails), "exception")
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				record(consoleText(e.Args), "console")
			}
		}
	})

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.Sleep(opts.Settle),
	)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func exceptionText(details *runtime.ExceptionDetails) string {
	if details == nil {
		return ""
	}
	if details.Exception != nil && details.Exception.Description != "" {
		return details.Exception.Description
	}
	return details.Text
}

func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		switch {
		case a.Description != "":
			parts = append(parts, a.Description)
		case len(a.Value) > 0:
			var s string
			if err := json.Unmarshal(a.Value, &s); err == nil {
				parts = append(parts, s)
			} else {
				parts = append(parts, string(a.Value))
			}
		}
	}
	return strings.Join(parts, " ")
}
