package console

import (
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/octabyte/bm-queue-console/enums"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 3000 * time.Millisecond

var toastIcons = map[enums.ToastKind]string{
	enums.ToastSuccess: "fas fa-check-circle",
	enums.ToastError:   "fas fa-exclamation-circle",
	enums.ToastWarning: "fas fa-exclamation-triangle",
	enums.ToastInfo:    "fas fa-info-circle",
}

// ToastIcon returns the icon class for kind, "" when kind is unknown.
func ToastIcon(kind enums.ToastKind) string {
	return toastIcons[kind]
}

type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through
// RealAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier shows one toast at a time. Showing a toast cancels the pending hide
// of the previous one.
type Notifier struct {
	doc       Document
	afterFunc AfterFunc
	delay     time.Duration

	mu      sync.Mutex
	timer   Timer
	current uint64
}

// NewNotifier returns a notifier. A nil afterFunc uses real timers.
func NewNotifier(doc Document, afterFunc AfterFunc) *Notifier {
	if afterFunc == nil {
		afterFunc = RealAfterFunc
	}
	return &Notifier{doc: doc, afterFunc: afterFunc, delay: ToastDuration}
}

func (n *Notifier) Show(msg string, kind enums.ToastKind) {
	if kind == "" {
		kind = enums.ToastSuccess
	}

	el := n.doc.ByID(IDToast)
	if el == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	el.SetHTML(fmt.Sprintf(`<i class="%s"></i> %s`, ToastIcon(kind), html.EscapeString(msg)))
	el.SetClass(fmt.Sprintf("toast %s %s", kind, ClassShow))

	n.current++
	id := n.current
	n.timer = n.afterFunc(n.delay, func() { n.hide(el, id) })
}

// hide is a no-op when a newer toast replaced toast id.
func (n *Notifier) hide(el Element, id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if id != n.current {
		return
	}
	el.ClassList().Remove(ClassShow)
	n.timer = nil
}
