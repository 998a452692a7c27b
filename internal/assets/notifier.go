package assets

import (
	"sync"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Notifier fans asset change notices out to listeners. Slow listeners miss
// notices rather than stall the watcher.
type Notifier struct {
	mu     sync.Mutex
	next   int
	listen map[int]chan patch.AssetsChanged
}

func NewNotifier() *Notifier {
	return &Notifier{listen: map[int]chan patch.AssetsChanged{}}
}

// Subscribe returns a channel of notices and a func that stops delivery.
func (n *Notifier) Subscribe() (<-chan patch.AssetsChanged, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	id := n.next
	ch := make(chan patch.AssetsChanged, 8)
	n.listen[id] = ch
	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if c, ok := n.listen[id]; ok {
			delete(n.listen, id)
			close(c)
		}
	}
}

// Publish delivers c to every listener.
func (n *Notifier) Publish(c patch.AssetsChanged) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.listen {
		select {
		case ch <- c:
		default:
		}
	}
}
