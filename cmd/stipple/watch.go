package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/stipple/internal/render"
)

const watchDebounce = 200 * time.Millisecond

type watchCmd struct {
	render  *renderCmd
	fs      *flag.FlagSet
	preview bool
}

func (c *watchCmd) Program() string {
	return c.render.Program()
}

func (c *watchCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseWatchCmd(args []string, r *root) (*watchCmd, error) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	rc := &renderCmd{root: r, fs: fs}
	c := &watchCmd{render: rc, fs: fs}
	fs.Usage = usageFunc(c)
	rc.in.register(fs, r, true)
	fs.StringVar(&rc.output, "output", "", "output PNG (default <input>-stipple.png)")
	fs.StringVar(&rc.seedOutput, "seed-output", "", "also write the seed pattern as PNG")
	fs.StringVar(&rc.pbm, "pbm", "", "also write the seed pattern as a binary PBM")
	fs.BoolVar(&c.preview, "preview", false, "show results in a window that follows each render")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	if rc.in.fromClipboard {
		return nil, errors.New("-from-clipboard cannot be used with watch")
	}
	if err := rc.in.validateSource(); err != nil {
		return nil, err
	}
	return c, nil
}

// watchedFiles returns the absolute paths whose changes trigger a render.
func (c *watchCmd) watchedFiles() ([]string, error) {
	paths := []string{c.render.in.file}
	if c.render.in.presetPath != "" {
		paths = append(paths, c.render.in.presetPath)
	}
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		paths[i] = abs
	}
	return paths, nil
}

func (c *watchCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.preview {
		return c.loop(ctx, nil)
	}

	res, opts, err := c.render.in.renderOnce(c.render.root)
	if err != nil {
		return err
	}
	if err := c.render.write(res, opts); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	updates := make(chan *render.Result, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.loop(ctx, updates)
		close(updates)
	}()
	// The window owns the main goroutine; closing it ends the watch.
	runViewerFn(newViewer(c.render.root, &c.render.in, res, opts, updates))
	cancel()
	return <-errCh
}

// loop renders once, then again after each debounced change to a watched
// file, until ctx is done. Render errors are logged and the loop goes on.
// When updates is set the first render is left to the caller, and a result
// nobody has picked up yet is replaced by the newer one.
func (c *watchCmd) loop(ctx context.Context, updates chan *render.Result) error {
	files, err := c.watchedFiles()
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, f := range files {
		targets[f] = true
		// Editors often replace files, so watch the directory.
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	renderNow := func() {
		res, opts, err := c.render.in.renderOnce(c.render.root)
		if err != nil {
			log.Printf("render: %v", err)
			return
		}
		if err := c.render.write(res, opts); err != nil {
			log.Printf("write: %v", err)
			return
		}
		if updates != nil {
			select {
			case updates <- res:
			default:
				select {
				case <-updates:
				default:
				}
				select {
				case updates <- res:
				case <-ctx.Done():
				}
			}
		}
	}
	if updates == nil {
		renderNow()
	}
	fmt.Fprintf(os.Stderr, "watching %d file(s), press Ctrl-C to stop\n", len(files))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		case <-timer.C:
			renderNow()
		}
	}
}
