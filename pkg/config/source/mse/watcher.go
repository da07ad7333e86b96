package mse

import (
	"sync"

	"github.com/ninja0404/old-runners/pkg/config/source"
)

type watcher struct {
	src     *mse
	updates chan string
	exit    chan struct{}
	once    sync.Once
}

func newWatcher(src *mse) (source.Watcher, error) {
	w := &watcher{
		src:     src,
		updates: make(chan string, 1),
		exit:    make(chan struct{}),
	}

	param := src.param()
	param.OnChange = func(namespace, group, dataId, data string) {
		select {
		case w.updates <- data:
		case <-w.exit:
		}
	}
	if err := src.client.ListenConfig(param); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *watcher) Next() (*source.ChangeSet, error) {
	select {
	case <-w.exit:
		return nil, source.ErrWatcherStopped
	default:
	}

	select {
	case data := <-w.updates:
		return w.src.changeSet(data), nil
	case <-w.exit:
		return nil, source.ErrWatcherStopped
	}
}

func (w *watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.exit)
		err = w.src.client.CancelListenConfig(w.src.param())
	})
	return err
}
