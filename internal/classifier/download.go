package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
)

// ErrModelMissing is returned when the model file does not exist and no
// download URL is configured.
var ErrModelMissing = errors.New("model file not found and no download URL set")

// EnsureModel makes sure a model file exists at path. If it is missing and
// url is set, the file is downloaded next to path and renamed into place.
// Download progress is drawn to progress when it is not nil.
//
// It reports whether a download happened.
func EnsureModel(ctx context.Context, path, url string, progress io.Writer) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat model: %w", err)
	}
	if url == "" {
		return false, fmt.Errorf("%s: %w", path, ErrModelMissing)
	}

	if err := download(ctx, path, url, progress); err != nil {
		return false, err
	}
	return true, nil
}

func download(ctx context.Context, path, url string, progress io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download model: unexpected status %s", resp.Status)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var dst io.Writer = tmp
	if progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription("Downloading model"),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionShowBytes(true),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(progress) }),
		)
		defer bar.Finish()
		dst = io.MultiWriter(tmp, bar)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write model: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move model into place: %w", err)
	}
	return nil
}
