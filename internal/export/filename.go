// filename.go — Capture file naming.
package export

import (
	"fmt"
	"time"
)

const (
	filenamePrefix = "network_log_"
	filenameExt    = ".json"
)

// Filename builds the capture file name from the local time t:
// network_log_<year><month><day>_<hour><min><sec>_<ms>.json
// The month is zero-based and no component is zero-padded, so names are
// unique per millisecond only.
func Filename(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%s%d%d%d_%d%d%d_%d%s",
		filenamePrefix,
		t.Year(), int(t.Month())-1, t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/int(time.Millisecond),
		filenameExt,
	)
}
