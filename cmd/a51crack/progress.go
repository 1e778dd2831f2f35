package main

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/luwangg/a51crack/internal/logging"
)

func formatCount(n int64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fG", float64(n)/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fk", float64(n)/1e3)
	default:
		return strconv.FormatInt(n, 10)
	}
}

func formatRate(perSec float64) string {
	switch {
	case perSec >= 1e9:
		return fmt.Sprintf("%.1fG/s", perSec/1e9)
	case perSec >= 1e6:
		return fmt.Sprintf("%.1fM/s", perSec/1e6)
	case perSec >= 1e3:
		return fmt.Sprintf("%.1fk/s", perSec/1e3)
	default:
		return fmt.Sprintf("%.1f/s", perSec)
	}
}

func progressLine(checked, total int64, elapsed time.Duration) string {
	e := elapsed.Seconds()
	if e < 1e-9 {
		e = 1e-9
	}
	rate := float64(checked) / e
	eta := ""
	if rate > 0 && checked < total {
		rem := time.Duration(float64(total-checked)/rate) * time.Second
		eta = " | ETA: " + rem.Truncate(time.Second).String()
	}
	return fmt.Sprintf("  Checked: %s/%s (%.1f%%) | Speed: %s | Elapsed: %.1fs%s",
		formatCount(checked), formatCount(total), 100*float64(checked)/float64(total), formatRate(rate), e, eta)
}

// startProgress keeps the status line of log showing the search progress,
// redrawn every second until done is closed. Nothing is drawn when stderr
// is not a terminal. The returned channel is closed once the line has been
// finished off.
func startProgress(log *logging.Logger, counter *atomic.Uint64, total int64, start time.Time, done <-chan struct{}) <-chan struct{} {
	finished := make(chan struct{})
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		close(finished)
		return finished
	}
	go func() {
		defer close(finished)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				log.Status(progressLine(int64(counter.Load()), total, time.Since(start)))
			case <-done:
				log.Status(progressLine(int64(counter.Load()), total, time.Since(start)))
				log.EndStatus()
				return
			}
		}
	}()
	return finished
}
