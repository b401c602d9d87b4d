package tactile

import (
	"fmt"
	"os"
	"time"
)

// debugTick prints per-tick routing stats to stderr and cross-checks
// the capture and over tables. Only called when Router.debug is true;
// release mode skips this entirely.
func (r *Router) debugTick(events, groups int, elapsed time.Duration) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[tactile] tick: %d events | %d machines routed | %d captured | %v\n",
		events, groups, len(r.captures), elapsed)
	r.debugCheckTables()
	r.debugCheckContactCount()
}

// debugCheckTables panics when a capture or over entry points at a
// machine no longer in the registry. Stale entries mean routing
// decisions are being made against a machine that cannot receive them.
func (r *Router) debugCheckTables() {
	for cid, mid := range r.captures {
		if _, ok := r.machines[mid]; !ok {
			panic(fmt.Sprintf("tactile debug: contact %d captured by unregistered machine %d", cid, mid))
		}
	}
	for cid, mid := range r.over {
		if _, ok := r.machines[mid]; !ok {
			panic(fmt.Sprintf("tactile debug: contact %d over unregistered machine %d", cid, mid))
		}
	}
}

// debugMaxContacts warns when the live hover table grows past the
// plausible simultaneous-touch count — usually a producer that forgot
// to send Removed.
const debugMaxContacts = 64

func (r *Router) debugCheckContactCount() {
	if len(r.over) > debugMaxContacts {
		_, _ = fmt.Fprintf(os.Stderr,
			"[tactile] warning: %d live hover entries (threshold %d); missing Removed events?\n",
			len(r.over), debugMaxContacts)
	}
}
