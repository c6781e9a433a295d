package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/ytget/soundfetch/internal/model"
)

func (w *Worker) fetchDirect(ctx context.Context, req Request, soundsDir string, progress func(float64)) model.DownloadEvent {
	finalPath := filepath.Join(soundsDir, req.TargetFilename)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return model.ErrorEvent(fmt.Sprintf("Direct download failed: %v", err))
	}
	resp, err := w.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return model.ErrorEvent(MsgCancelled)
		}
		return model.ErrorEvent(fmt.Sprintf("Direct download failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return model.ErrorEvent(fmt.Sprintf("Direct download failed: unexpected status %s", resp.Status))
	}

	// ContentLength is -1 when the server sent no length
	total := resp.ContentLength

	file, err := w.fs.Create(finalPath)
	if err != nil {
		return model.ErrorEvent(fmt.Sprintf("Failed to create file: %v", err))
	}

	buf := make([]byte, w.chunkSize)
	var downloaded int64
	for {
		n, readErr := readChunk(resp.Body, buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				_ = file.Close()
				return model.ErrorEvent(fmt.Sprintf("Failed to write to file: %v", err))
			}
			downloaded += int64(n)
			if total > 0 {
				progress(float64(downloaded) / float64(total) * 100)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			_ = file.Close()
			if ctx.Err() != nil {
				return model.ErrorEvent(MsgCancelled)
			}
			return model.ErrorEvent(fmt.Sprintf("Download failed: %v", readErr))
		}
	}

	if err := file.Close(); err != nil {
		return model.ErrorEvent(fmt.Sprintf("Failed to write to file: %v", err))
	}
	return model.SuccessEvent(req.Name, req.Category, finalPath, req.Icon, req.URL)
}

// readChunk fills buf from r. Only the final chunk of a stream may be short;
// it is returned together with io.EOF.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
