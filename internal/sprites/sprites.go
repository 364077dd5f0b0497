// Package sprites loads the fish images units are drawn with.
package sprites

import (
	"image"
	_ "image/png" // register the PNG decoder
	"io/fs"
	"math/rand/v2"
	"path"
	"sort"
	"strings"

	golog "github.com/tochemey/goakt/v3/log"
)

// Sprite is a decoded image with the file it came from.
type Sprite struct {
	Name  string
	Image image.Image
}

// Library holds every sprite that could be decoded.
type Library struct {
	logger  golog.Logger
	rng     *rand.Rand
	sprites []Sprite
}

// NewLibrary creates an empty library. A nil rng uses a time-seeded source.
func NewLibrary(logger golog.Logger, rng *rand.Rand) *Library {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Library{logger: logger, rng: rng}
}

// Discover returns the sorted names of the PNG files directly under dir.
func Discover(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".png") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Load replaces the library content with the PNGs found in dir. An unreadable
// directory or file is logged and skipped, so the library may end up empty.
// It returns the number of sprites loaded.
func (l *Library) Load(fsys fs.FS, dir string) int {
	l.sprites = l.sprites[:0]

	names, err := Discover(fsys, dir)
	if err != nil {
		l.logger.Errorf("could not open sprite directory %s: %v", dir, err)
		return 0
	}

	for _, name := range names {
		img, err := decode(fsys, path.Join(dir, name))
		if err != nil {
			l.logger.Warnf("skipping sprite %s: %v", name, err)
			continue
		}
		l.sprites = append(l.sprites, Sprite{Name: name, Image: img})
	}
	l.logger.Infof("loaded %d sprites from %s", len(l.sprites), dir)
	return len(l.sprites)
}

func decode(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// Len is the number of loaded sprites.
func (l *Library) Len() int { return len(l.sprites) }

// Random picks one loaded sprite, or returns nil after logging when none are loaded.
func (l *Library) Random() *Sprite {
	if len(l.sprites) == 0 {
		l.logger.Error("no sprites loaded, call Load first")
		return nil
	}
	return &l.sprites[l.rng.IntN(len(l.sprites))]
}
