package file

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/ninja0404/old-runners/pkg/config/source"
)

type watcher struct {
	f    *file
	fw   *fsnotify.Watcher
	exit chan bool
}

func newWatcher(f *file) (source.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(f.path); err != nil {
		fw.Close()
		return nil, err
	}

	return &watcher{
		f:    f,
		fw:   fw,
		exit: make(chan bool),
	}, nil
}

func (w *watcher) Next() (*source.ChangeSet, error) {
	// is it closed?
	select {
	case <-w.exit:
		return nil, source.ErrWatcherStopped
	default:
	}

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil, source.ErrWatcherStopped
			}
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// editors replace the file on save; re-arm the watch on the new inode
				if _, err := os.Stat(w.f.path); err == nil {
					_ = w.fw.Add(w.f.path)
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			c, err := w.f.Read()
			if err != nil {
				return nil, err
			}
			return c, nil
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil, source.ErrWatcherStopped
			}
			return nil, err
		case <-w.exit:
			return nil, source.ErrWatcherStopped
		}
	}
}

func (w *watcher) Stop() error {
	select {
	case <-w.exit:
		return nil
	default:
		close(w.exit)
	}
	return w.fw.Close()
}
