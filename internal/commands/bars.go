package commands

import (
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ytget/soundfetch/internal/model"
)

// barSet renders one progress bar per started task
type barSet struct {
	p    *mpb.Progress
	bars map[string]*mpb.Bar
}

func newBarSet(out io.Writer) *barSet {
	return &barSet{
		p:    mpb.New(mpb.WithWidth(64), mpb.WithOutput(out), mpb.WithRefreshRate(100*time.Millisecond)),
		bars: make(map[string]*mpb.Bar),
	}
}

func (b *barSet) bar(task *model.DownloadTask) *mpb.Bar {
	if bar, ok := b.bars[task.ID]; ok {
		return bar
	}

	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	name := task.Icon + " " + task.GetDisplayTitle()
	bar := b.p.New(0,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.OnAbort(
				decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
				"failed",
			),
		),
		mpb.AppendDecorators(
			decor.OnAbort(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), ""),
				"",
			),
		),
	)
	// percent based; completion is triggered explicitly
	bar.SetTotal(100, false)
	b.bars[task.ID] = bar
	return bar
}

// Update mirrors task state onto its bar. It is used as the controller's
// update callback.
func (b *barSet) Update(task *model.DownloadTask) {
	switch task.Status {
	case model.TaskStatusDownloading:
		b.bar(task).SetCurrent(int64(task.Progress))
	case model.TaskStatusDone:
		bar := b.bar(task)
		bar.SetCurrent(100)
		bar.SetTotal(-1, true)
	case model.TaskStatusError:
		b.bar(task).Abort(false)
	}
}

// Wait blocks until every bar has been rendered for the last time
func (b *barSet) Wait() {
	b.p.Wait()
}
