package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dgnsrekt/laoshi/internal/vocab"
)

// watcherReadyMsg delivers the running watcher to the top-level model.
type watcherReadyMsg struct{ watcher *vocabWatcher }

// vocabWatcher notices CSV edits made outside the shell so the vocabulary
// can be reloaded while the program runs.
type vocabWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
}

// watchVocabCmd sets up a watch on the data directory. Failure to watch is
// logged and tolerated; the shell works without live reload.
func watchVocabCmd(c *commonModel) tea.Cmd {
	return func() tea.Msg {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Error("error creating fsnotify watcher", "error", err)
			return nil
		}
		if err := w.Add(c.cfg.DataDir); err != nil {
			log.Error("error adding dir to fsnotify watcher", "error", err)
			w.Close()
			return nil
		}
		log.Info("fsnotify watching dir", "dir", c.cfg.DataDir)

		return watcherReadyMsg{watcher: &vocabWatcher{
			watcher: w,
			files: map[string]bool{
				vocab.WordFileName:     true,
				vocab.SentenceFileName: true,
			},
		}}
	}
}

// waitForChange blocks until one of the CSV stores changes. The caller
// re-arms it after handling each message.
func (w *vocabWatcher) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				// Event names carry the watch path exactly as it was added,
				// so a data dir of "." arrives as "./vocabulary.csv". The
				// watch covers one flat directory; the base name is enough.
				if !w.files[filepath.Base(event.Name)] {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
				return vocabChangedMsg{name: filepath.Base(event.Name)}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				log.Debug("fsnotify error", "error", err)
			}
		}
	}
}
