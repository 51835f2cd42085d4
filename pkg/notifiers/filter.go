package notifiers

import "io"

// eventFilter is implemented by notifiers that only subscribe to some event types.
type eventFilter interface {
	Accepts(evtType string) bool
}

// filteredNotifier restricts a notifier to the event types listed in its config.
type filteredNotifier struct {
	Notifier
	cfg NotifierConfig
}

func withEventFilter(n Notifier, cfg NotifierConfig) Notifier {
	if n == nil || len(cfg.Events) == 0 {
		return n
	}
	return &filteredNotifier{Notifier: n, cfg: cfg}
}

func (f *filteredNotifier) Accepts(evtType string) bool { return f.cfg.Accepts(evtType) }

func (f *filteredNotifier) Close() error {
	if c, ok := f.Notifier.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
