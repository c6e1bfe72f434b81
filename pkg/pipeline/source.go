package pipeline

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/errors"
)

// PickSource returns input itself when it is a file, or a random image
// from it when it is a directory.
func PickSource(input string) (string, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "%q: invalid file or directory", input)
	}
	if !fi.IsDir() {
		return input, nil
	}

	images, err := ListImages(input)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", errors.New(errors.ErrCodeInvalidPath, "images directory empty: %s", input)
	}
	return images[rand.IntN(len(images))], nil
}

// ListImages returns the sorted paths of the images directly inside dir,
// leaving out files this tool exported there.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read images directory %s", dir)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || cache.Owned(e.Name()) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(ImageExtensions, ext) {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
