package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotAuthorized  = errors.New("login required")
)

// Replier receives reply lines. Console sessions buffer them until the
// Output phase.
type Replier interface {
	Send(line string)
}

// Authorizer is implemented by repliers that may need to log in first.
// Repliers that do not implement it are trusted.
type Authorizer interface {
	Authorized() bool
	Authorize()
}

// HandlerFunc is the callback signature for console commands. args excludes
// the command word.
type HandlerFunc func(r Replier, args []string)

type handlerEntry struct {
	fn    HandlerFunc
	usage string
	open  bool // usable before login
}

// Registry maps command words to handlers. Words are matched without regard
// to case.
type Registry struct {
	handlers map[string]*handlerEntry
	fold     cases.Caser
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]*handlerEntry),
		fold:     cases.Fold(),
		log:      log,
	}
}

// Register maps a command word to a handler. usage is shown by Usage.
func (reg *Registry) Register(word, usage string, fn HandlerFunc) {
	reg.handlers[reg.fold.String(word)] = &handlerEntry{fn: fn, usage: usage}
}

// RegisterOpen registers a command that needs no login.
func (reg *Registry) RegisterOpen(word, usage string, fn HandlerFunc) {
	reg.handlers[reg.fold.String(word)] = &handlerEntry{fn: fn, usage: usage, open: true}
}

// Dispatch splits line into words and runs the handler for the first one.
// Commands other than open ones are refused to an unauthorized Replier.
func (reg *Registry) Dispatch(r Replier, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ErrEmpty
	}
	word := reg.fold.String(fields[0])
	reg.log.Debug("console command", zap.String("word", word), zap.Int("args", len(fields)-1))

	entry, ok := reg.handlers[word]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	if a, ok := r.(Authorizer); ok && !entry.open && !a.Authorized() {
		reg.log.Warn("console command before login", zap.String("word", word))
		return ErrNotAuthorized
	}
	return reg.safeCall(entry.fn, r, fields[1:], word)
}

// Usage lists every registered command's usage line, sorted by word.
func (reg *Registry) Usage() []string {
	words := make([]string, 0, len(reg.handlers))
	for w := range reg.handlers {
		words = append(words, w)
	}
	sort.Strings(words)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = reg.handlers[w].usage
	}
	return out
}

// safeCall runs a handler with panic recovery so a bad command cannot take
// down the game loop.
func (reg *Registry) safeCall(fn HandlerFunc, r Replier, args []string, word string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("console handler panic recovered",
				zap.String("word", word),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for %q: %v", word, rec)
		}
	}()
	fn(r, args)
	return nil
}
