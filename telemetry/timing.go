package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TimingCollector collects hierarchical timing data.
// It builds a tree of timers that can be reported as a nested view.
type TimingCollector struct {
	root    *timerNode
	current *timerNode
	mu      sync.Mutex
}

// timerNode represents a single timed operation in the tree.
type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{
		name:  name,
		start: time.Now(),
	}

	// The first timer becomes the root
	if c.root == nil {
		c.root = node
		c.current = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
		c.current = node
	}

	return &timingTimer{
		collector: c,
		node:      node,
	}
}

// Report outputs the timing tree to a writer.
// Example output:
//
//	replay journal: 125ms
//	├─ balance transactions: 15ms
//	└─ apply transactions: 105ms
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", c.root.name, formatDuration(c.root.end.Sub(c.root.start)))
	for i, child := range c.root.children {
		formatNode(w, child, "", i == len(c.root.children)-1)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	_, _ = fmt.Fprintf(w, "%s%s%s: %s\n",
		prefix, branch, node.name, formatDuration(node.end.Sub(node.start)))

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// timingTimer is a Timer implementation that records to a TimingCollector.
type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()

	if t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

// Child creates a nested timer.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{
		name:   name,
		start:  time.Now(),
		parent: t.node,
	}

	t.node.children = append(t.node.children, node)

	return &timingTimer{
		collector: t.collector,
		node:      node,
	}
}
