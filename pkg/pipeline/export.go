package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/partition"
	"github.com/matzehuels/rwpspread/pkg/raster"
)

// Export cuts every crop of plan out of src and writes it to the path in
// dest keyed by monitor name. Monitors are exported in parallel; they read
// the same immutable target image and write disjoint files.
func Export(ctx context.Context, src *raster.Source, plan partition.Plan, dest map[string]string) error {
	for _, c := range plan.Crops {
		if _, ok := dest[c.Name]; !ok {
			return errors.New(errors.ErrCodeInternal, "no output path for monitor %s", c.Name)
		}
	}

	var target image.Image = src.Image
	if plan.Resize {
		target = raster.Fill(src.Image, plan.Canvas.X, plan.Canvas.Y)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range plan.Crops {
		path := dest[c.Name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img := raster.Crop(target, c.Rect)
			if c.NeedsResize() {
				img = raster.Fill(img, c.NativeWidth, c.NativeHeight)
			}
			return raster.SavePNG(img, path)
		})
	}
	return g.Wait()
}

// LinkAliases points each monitor's stable alias at its hashed artifact.
// Links are relative so the work directory can be moved.
func LinkAliases(set cache.ArtifactSet, dir string) error {
	for _, m := range set.Monitors {
		alias := set.Alias(dir, m)
		if err := os.Remove(alias); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeIO, err, "remove alias %s", filepath.Base(alias))
		}
		if err := os.Symlink(cache.ArtifactName(m, set.Key), alias); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "link alias %s", filepath.Base(alias))
		}
	}
	return nil
}
