package dashboard

import "time"

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

// NoticeTTL is how long a notification stays visible.
const NoticeTTL = 4 * time.Second

// Notice is one transient notification line.
type Notice struct {
	ID       int
	Text     string
	Severity Severity
	At       time.Time
}

// Notify appends a notification. The list is append-only until expiry.
func (s State) Notify(sev Severity, text string, now time.Time) State {
	s.nextNoticeID++
	n := Notice{ID: s.nextNoticeID, Text: text, Severity: sev, At: now}
	s.Notices = append(append([]Notice{}, s.Notices...), n)
	return s
}

// PruneNotices drops notifications older than NoticeTTL.
func (s State) PruneNotices(now time.Time) State {
	kept := make([]Notice, 0, len(s.Notices))
	for _, n := range s.Notices {
		if now.Sub(n.At) < NoticeTTL {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	s.Notices = kept
	return s
}
