package file

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// FindByExt walks dir and returns the files whose lower-cased extension is in
// exts and that were modified after startTime. A zero startTime keeps every
// match.
func FindByExt(dir string, exts []string, startTime time.Time) ([]string, error) {
	ret := make([]string, 0)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		if !startTime.IsZero() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !info.ModTime().After(startTime) {
				return nil
			}
		}
		ret = append(ret, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
