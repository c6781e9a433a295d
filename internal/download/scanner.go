package download

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

// ScanMissing returns one pending task per sound whose file is absent on fs
// and whose URL is non-blank. Without the extraction tool no bulk fetch is
// attempted and nothing is returned.
func ScanMissing(fs afero.Fs, sounds []model.Sound, ytdlpAvailable bool) []*model.DownloadTask {
	if !ytdlpAvailable {
		return nil
	}

	var tasks []*model.DownloadTask
	for _, s := range sounds {
		if !s.HasURL() {
			continue
		}
		if platform.FileExists(fs, s.FilePath) {
			continue
		}
		tasks = append(tasks, model.NewDownloadTask(s.Name, s.Category, s.Icon, s.URL, filepath.Base(s.FilePath)))
	}
	return tasks
}
