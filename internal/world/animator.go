package world

import (
	"sort"
	"time"
)

// Animator stores boolean animator parameters and the lengths of the clips
// they play.
type Animator struct {
	flags map[string]bool
	clips map[string]time.Duration
}

func NewAnimator(clips map[string]time.Duration) *Animator {
	if clips == nil {
		clips = make(map[string]time.Duration)
	}
	return &Animator{flags: make(map[string]bool, 4), clips: clips}
}

func (a *Animator) SetBool(name string, v bool) { a.flags[name] = v }

func (a *Animator) Bool(name string) bool { return a.flags[name] }

func (a *Animator) ClipLength(name string) (time.Duration, bool) {
	d, ok := a.clips[name]
	return d, ok
}

// Active returns the names of the flags currently set, sorted.
func (a *Animator) Active() []string {
	var out []string
	for k, v := range a.flags {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
