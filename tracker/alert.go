package tracker

import (
	"fmt"
	"time"
)

type (
	// Alert is a message for the user, sent by the player in MsgToModel.Data
	// instead of failing the render callback.
	Alert struct {
		Name     string // alerts with the same name replace each other
		Priority AlertPriority
		Message  string
		Duration time.Duration
	}

	AlertPriority int
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

var priorityNames = [...]string{"none", "info", "warning", "error"}

func (p AlertPriority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return fmt.Sprintf("priority(%d)", int(p))
	}
	return priorityNames[p]
}

func (a Alert) String() string {
	return fmt.Sprintf("[%s] %s: %s", a.Priority, a.Name, a.Message)
}
