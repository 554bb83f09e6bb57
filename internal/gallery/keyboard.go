package gallery

import "sync"

// Key is a keyboard key name as reported by the browser.
type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyEscape     Key = "Escape"
)

// Keyboard is the registry keyboard events are dispatched through. Handlers
// only see keys while they are registered.
type Keyboard struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(Key)
}

func NewKeyboard() *Keyboard {
	return &Keyboard{handlers: make(map[int]func(Key))}
}

// Register adds h and returns the func that removes it. Calling release more
// than once is harmless.
func (k *Keyboard) Register(h func(Key)) (release func()) {
	k.mu.Lock()
	id := k.next
	k.next++
	k.handlers[id] = h
	k.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			delete(k.handlers, id)
			k.mu.Unlock()
		})
	}
}

// Dispatch delivers key to every registered handler and returns how many saw it.
func (k *Keyboard) Dispatch(key Key) int {
	k.mu.Lock()
	hs := make([]func(Key), 0, len(k.handlers))
	for _, h := range k.handlers {
		hs = append(hs, h)
	}
	k.mu.Unlock()

	for _, h := range hs {
		h(key)
	}
	return len(hs)
}

// Listeners is the number of registered handlers.
func (k *Keyboard) Listeners() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.handlers)
}
