package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/rwpspread/pkg/backend"
	"github.com/matzehuels/rwpspread/pkg/locker"
	"github.com/matzehuels/rwpspread/pkg/partition"
	"github.com/matzehuels/rwpspread/pkg/pipeline"
)

// splitFlags are the flags of the root command.
type splitFlags struct {
	image    string
	info     bool
	output   string
	align    string
	backend  string
	locker   string
	bezel    int
	monitors []string
	ppi      bool
	daemon   bool
	palette  bool
	pre      string
	post     string
	watch    bool
	force    bool
	config   string
}

func (f *splitFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.image, "image", "i", "", "image file or directory path")
	fs.BoolVar(&f.info, "info", false, "show detected monitors and exit")
	fs.StringVarP(&f.output, "output", "o", "", "output directory path")
	fs.StringVarP(&f.align, "align", "a", "", "do not resize the image, align the layout instead ("+joinAlignments()+")")
	fs.StringVarP(&f.backend, "backend", "b", "", "wallpaper setter backend ("+joinBackends()+")")
	fs.StringVarP(&f.locker, "locker", "l", "", "lockscreen to generate a config for (hyprlock, swaylock)")
	fs.IntVar(&f.bezel, "bezel", 0, "bezel amount in pixels to compensate for")
	fs.StringArrayVarP(&f.monitors, "monitors", "m", nil, `monitor diagonals in inches, space separated ("NAME:INCHES")`)
	fs.BoolVar(&f.ppi, "ppi", false, "compensate for different monitor ppi values (requires --monitors)")
	fs.BoolVarP(&f.daemon, "daemon", "d", false, "keep running and resplit on output changes")
	fs.BoolVarP(&f.palette, "palette", "p", false, "generate a color palette from the input image")
	fs.StringVar(&f.pre, "pre", "", "script to execute before splitting")
	fs.StringVar(&f.post, "post", "", "script to execute after splitting")
	fs.BoolVarP(&f.watch, "watch", "w", false, "resplit when the input image changes (requires --daemon)")
	fs.BoolVarP(&f.force, "force-resplit", "f", false, "skip all cache checks")
	fs.StringVarP(&f.config, "config", "c", "", "config file (default $XDG_CONFIG_HOME/rwpspread/config.toml)")
}

// options converts the flags into run options. Values are validated by
// pipeline.Options.ValidateAndSetDefaults.
func (f *splitFlags) options() (pipeline.Options, error) {
	var entries []string
	for _, m := range f.monitors {
		entries = append(entries, strings.Fields(m)...)
	}
	diagonals, err := pipeline.ParseDiagonals(entries)
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Input:      f.image,
		Output:     f.output,
		Alignment:  partition.Alignment(f.align),
		Backend:    backend.Kind(f.backend),
		Locker:     locker.Kind(f.locker),
		Bezel:      f.bezel,
		Diagonals:  diagonals,
		PPI:        f.ppi,
		Daemon:     f.daemon,
		Watch:      f.watch,
		Palette:    f.palette,
		Force:      f.force,
		PreScript:  f.pre,
		PostScript: f.post,
	}, nil
}

func joinAlignments() string {
	parts := make([]string, len(partition.Alignments))
	for i, a := range partition.Alignments {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

func joinBackends() string {
	parts := make([]string, len(backend.Kinds))
	for i, k := range backend.Kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
