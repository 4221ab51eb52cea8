package cli

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// newProgress returns a bank.Config progress callback backed by a terminal
// progress bar. The bar is created lazily once the candidate total is known.
func newProgress() func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("banking"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}
}
