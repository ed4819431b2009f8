package classify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// NewFromCatalog builds a classifier from a JSON catalog file
// ({"category": ["keyword", ...], ...}) and hot-reloads it on change.
// Close the classifier to stop the watcher.
func NewFromCatalog(path string) (*Classifier, error) {
	c := &Classifier{}
	if err := c.loadCatalog(path); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch catalog dir: %w", err)
	}
	c.watcher = watcher
	go c.watchCatalog(path)

	log.Printf("[classify] catalog loaded from %s", path)
	return c, nil
}

func (c *Classifier) loadCatalog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	rules, err := rulesFromCatalog(doc)
	if err != nil {
		return err
	}
	c.setRules(rules)
	return nil
}

func (c *Classifier) watchCatalog(path string) {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Clean(event.Name), filepath.Clean(path)) {
				continue
			}
			// Small delay so the writer finishes before we read.
			time.Sleep(100 * time.Millisecond)
			if err := c.loadCatalog(path); err != nil {
				log.Printf("[classify] catalog reload failed, keeping previous rules: %v", err)
				continue
			}
			log.Printf("[classify] catalog reloaded from %s", path)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[classify] catalog watcher error: %v", err)
		}
	}
}

// Close stops the catalog watcher if one is running.
func (c *Classifier) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}
