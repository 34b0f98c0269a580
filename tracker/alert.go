package tracker

import (
	"time"

	"golang.org/x/exp/slices"
)

type (
	// Alerts are the transient messages shown to the user, most important
	// first.
	Alerts struct {
		alerts []Alert
	}

	// Alert is one message. An alert with a Name replaces the previous alert
	// with the same name, so progress reports do not pile up.
	Alert struct {
		Name     string
		Priority AlertPriority
		Message  string
		Duration time.Duration
	}

	AlertPriority int
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (m *Model) Alerts() *Alerts { return &m.alerts }

func (a *Alerts) Add(message string, priority AlertPriority) {
	a.AddAlert(Alert{Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (a *Alerts) AddAlert(alert Alert) {
	if alert.Name != "" {
		for i := range a.alerts {
			if a.alerts[i].Name == alert.Name {
				a.alerts[i] = alert
				a.sort()
				return
			}
		}
	}
	a.alerts = append(a.alerts, alert)
	a.sort()
}

// Update ages the alerts by d, dropping the expired ones. Returns true if an
// alert was dropped.
func (a *Alerts) Update(d time.Duration) bool {
	n := len(a.alerts)
	for i := range a.alerts {
		a.alerts[i].Duration -= d
	}
	a.alerts = slices.DeleteFunc(a.alerts, func(al Alert) bool { return al.Duration <= 0 })
	return len(a.alerts) != n
}

// Top returns the most important alert, if any.
func (a *Alerts) Top() (Alert, bool) {
	if len(a.alerts) == 0 {
		return Alert{}, false
	}
	return a.alerts[0], true
}

func (a *Alerts) List() []Alert { return a.alerts }

func (a *Alerts) sort() {
	slices.SortStableFunc(a.alerts, func(x, y Alert) int { return int(y.Priority) - int(x.Priority) })
}
