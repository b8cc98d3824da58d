package speech

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var ErrNoProbe = errors.New("ffprobe not found in PATH")

// AudioDuration asks ffprobe for the length of an audio file.
func AudioDuration(ctx context.Context, path string) (time.Duration, error) {
	bin, err := exec.LookPath("ffprobe")
	if err != nil {
		return 0, ErrNoProbe
	}

	out, err := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}
