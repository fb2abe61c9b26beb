package browser

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/event"
)

// Browser renders a session history on a tcell screen and edits it from
// key presses.
type Browser struct {
	screen  tcell.Screen
	session *app.Session
	logger  *zap.Logger

	showIDs   bool
	showTimes bool

	// selected indexes the History() listing.
	selected int
	// offset is the first listed entry when the list scrolls.
	offset int
	status string

	sub *event.Subscription
}

// New creates a browser. The screen must already be initialized.
func New(screen tcell.Screen, session *app.Session) (*Browser, error) {
	cfg := session.Config().Browser
	b := &Browser{
		screen:    screen,
		session:   session,
		logger:    session.Logger().Named("browser"),
		showIDs:   cfg.ShowIDs,
		showTimes: cfg.ShowTimes,
	}

	sub, err := history.Subscribe(session.Bus(), history.TopicAll, b.onNotify)
	if err != nil {
		return nil, err
	}
	b.sub = sub
	b.selectCurrent()
	return b, nil
}

// Selected returns the index of the selected entry.
func (b *Browser) Selected() int { return b.selected }

// Status returns the status line message.
func (b *Browser) Status() string { return b.status }

// onNotify follows the present point after every history change.
func (b *Browser) onNotify(n history.Notification[document.Command]) {
	b.selectCurrent()
	if n.Kind == history.Changed {
		b.status = "history changed"
	}
}

func (b *Browser) selectCurrent() {
	current := b.session.History().Current()
	for i, d := range b.session.History().History() {
		if d == current {
			b.selected = i
			return
		}
	}
}

// HandleKey applies a key press. It returns false when the browser should
// quit.
func (b *Browser) HandleKey(ev *tcell.EventKey) bool {
	b.status = ""
	last := len(b.session.History().History()) - 1

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		b.move(-1, last)
	case tcell.KeyDown:
		b.move(1, last)
	case tcell.KeyHome:
		b.selected = 0
	case tcell.KeyEnd:
		b.selected = last
	case tcell.KeyEnter:
		if d, ok := b.session.Entry(b.selected); ok {
			b.report("jump", b.session.JumpTo(d))
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'k':
			b.move(-1, last)
		case 'j':
			b.move(1, last)
		case 'u':
			b.report("undo", b.session.Undo())
		case 'r':
			b.report("redo", b.session.Redo())
		case 'c':
			b.session.Clear()
		}
	}
	return true
}

func (b *Browser) move(delta, last int) {
	b.selected = max(0, min(last, b.selected+delta))
}

func (b *Browser) report(op string, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, history.ErrReplayFailed):
		b.status = op + " failed, history cleared: " + err.Error()
	default:
		b.status = op + " failed: " + err.Error()
	}
}

// ApplyConfig switches the session and the view to cfg.
func (b *Browser) ApplyConfig(cfg *config.Config) {
	if err := b.session.ApplyConfig(cfg); err != nil {
		b.status = "configuration rejected: " + err.Error()
		b.logger.Warn("configuration rejected", zap.Error(err))
		return
	}
	b.showIDs = cfg.Browser.ShowIDs
	b.showTimes = cfg.Browser.ShowTimes
	b.status = "configuration reloaded"
}

// Reload hands cfg to the goroutine running Run. It is safe to call from
// any goroutine.
func (b *Browser) Reload(cfg *config.Config) {
	_ = b.screen.PostEvent(tcell.NewEventInterrupt(cfg)) // best-effort; event queue may be full
}

// Run draws the browser and handles events until the user quits, the
// screen is finalized or ctx is done.
func (b *Browser) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = b.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
		case <-stop:
		}
	}()

	b.Draw()
	for {
		switch ev := b.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			b.screen.Sync()
		case *tcell.EventKey:
			if !b.HandleKey(ev) {
				return nil
			}
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case *config.Config:
				b.ApplyConfig(data)
			case error:
				return data
			}
		}
		b.Draw()
	}
}

// Close removes the bus subscription.
func (b *Browser) Close() error {
	if b.sub == nil {
		return nil
	}
	err := b.session.Bus().Unsubscribe(b.sub)
	b.sub = nil
	return err
}
