// Package dom is the in-process document the screens are rendered into.
// Each mount point holds the markup last written to it.
package dom

import (
	"log/slog"
	"sort"
	"sync"
)

type mount struct {
	markup  string
	version int
}

type Document struct {
	mu     sync.RWMutex
	mounts map[string]*mount
}

func NewDocument(mountIDs ...string) *Document {
	d := &Document{mounts: make(map[string]*mount, len(mountIDs))}
	for _, id := range mountIDs {
		d.mounts[id] = &mount{}
	}
	return d
}

func (d *Document) AddMount(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.mounts[id]; !ok {
		d.mounts[id] = &mount{}
	}
}

func (d *Document) RemoveMount(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.mounts, id)
}

func (d *Document) MountIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.mounts))
	for id := range d.mounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Markup returns the content of the mount point and whether it exists.
func (d *Document) Markup(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.mounts[id]
	if !ok {
		return "", false
	}
	return m.markup, true
}

// Version counts how many times the mount point was replaced.
func (d *Document) Version(id string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if m, ok := d.mounts[id]; ok {
		return m.version
	}
	return 0
}

func (d *Document) replace(id, markup string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.mounts[id]
	if !ok {
		return false
	}
	m.markup = markup
	m.version++
	return true
}

// Sink writes screens into one mount point of a document.
type Sink struct {
	doc     *Document
	mountID string
	logger  *slog.Logger
}

func NewSink(doc *Document, mountID string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{doc: doc, mountID: mountID, logger: logger}
}

func (s *Sink) MountID() string {
	return s.mountID
}

// UpdateView replaces the mount point content. A missing mount point is
// reported and leaves the document untouched.
func (s *Sink) UpdateView(markup string) bool {
	if s.doc == nil || !s.doc.replace(s.mountID, markup) {
		s.logger.Error("mount point not found, screen not updated", "mount", s.mountID)
		return false
	}
	return true
}

// Markup returns the content of the sink's mount point.
func (s *Sink) Markup() (string, bool) {
	if s.doc == nil {
		return "", false
	}
	return s.doc.Markup(s.mountID)
}
