package sdk

import (
	"fmt"
	"regexp"
	"sync"
)

var (
	// isPingTagValid matches the tag format accepted by the debug ping viewer.
	isPingTagValid = regexp.MustCompile(`^[a-zA-Z0-9-]{1,20}$`)

	pingTagMu sync.RWMutex
	pingTag   string
)

// SetPingTag sets the process-wide debug view tag. Uploaded pings carry the
// tag as their X-Debug-ID header. An empty tag clears the setting; any other
// value must be 1-20 characters from [a-zA-Z0-9-].
func SetPingTag(tag string) error {
	if tag != "" && !isPingTagValid.MatchString(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidPingTag, tag)
	}

	pingTagMu.Lock()
	pingTag = tag
	pingTagMu.Unlock()
	return nil
}

// PingTag returns the current debug view tag, or an empty string when unset.
func PingTag() string {
	pingTagMu.RLock()
	defer pingTagMu.RUnlock()
	return pingTag
}
