package browser

import (
	"fmt"
	"log"
	"time"

	"RekhtaDownloader/pkg/config"
)

// Launcher opens a fresh browser session.
type Launcher interface {
	Launch() (Driver, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func() (Driver, error)

func (f LauncherFunc) Launch() (Driver, error) { return f() }

// Options control how a session is started.
type Options struct {
	Headless        bool
	Stealth         bool
	Maximize        bool
	DownloadDir     string
	NavigateTimeout time.Duration
}

// NewLauncher picks the engine named in the scraper config.
func NewLauncher(conf config.ScraperConfig, maximize bool) (Launcher, error) {
	opts := Options{
		Headless:        conf.Headless,
		Stealth:         conf.Stealth,
		Maximize:        maximize,
		DownloadDir:     conf.DownloadDir,
		NavigateTimeout: conf.NavigateTimeout,
	}
	switch conf.Engine {
	case "", config.EngineRod:
		return RodLauncher{Options: opts}, nil
	case config.EnginePlaywright:
		return PlaywrightLauncher{Options: opts}, nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", conf.Engine)
	}
}

// WithSession launches a session, hands it to fn and always closes it,
// including when fn returns early or panics. The first error of fn or of
// the close is returned.
func WithSession(l Launcher, fn func(Driver) error) (err error) {
	d, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser session: %w", err)
	}
	defer func() {
		cerr := d.Close()
		if cerr == nil {
			return
		}
		if err == nil {
			err = fmt.Errorf("failed to close browser session: %w", cerr)
			return
		}
		log.Printf("WARN: failed to close browser session: %v", cerr)
	}()

	return fn(d)
}
