// File: internal/config/speed.go
package config

import (
	"fmt"
	"time"
)

// SpeedProfile fixes the pacing of a run: the pause between scenario steps
// and the per-character/per-word delays the document adapter uses for visible
// typing. A profile is an immutable value passed into the runner; two runs in
// the same process can use different profiles.
type SpeedProfile struct {
	Name      string
	InterStep time.Duration
	PerChar   time.Duration
	PerWord   time.Duration
}

var speedProfiles = map[string]SpeedProfile{
	"slow":   {Name: "slow", InterStep: 2 * time.Second, PerChar: 50 * time.Millisecond, PerWord: 150 * time.Millisecond},
	"normal": {Name: "normal", InterStep: time.Second, PerChar: 30 * time.Millisecond, PerWord: 100 * time.Millisecond},
	"fast":   {Name: "fast", InterStep: 500 * time.Millisecond, PerChar: 10 * time.Millisecond, PerWord: 50 * time.Millisecond},
}

// SpeedProfileFor resolves a profile selector to its fixed delay set.
func SpeedProfileFor(name string) (SpeedProfile, error) {
	p, ok := speedProfiles[name]
	if !ok {
		return SpeedProfile{}, fmt.Errorf("unknown speed profile %q (want slow, normal or fast)", name)
	}
	return p, nil
}
