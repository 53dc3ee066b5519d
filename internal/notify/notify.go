// Package notify sends desktop notifications and schedules task reminders.
package notify

import (
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Sender delivers due reminders
type Sender interface {
	SendDueReminder(taskTitle string, dueIn time.Duration) error
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	command string
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
		command: "notify-send",
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Available reports whether the notification command is installed
func (n *Notifier) Available() bool {
	_, err := exec.LookPath(n.command)
	return err == nil
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	cmd := exec.Command(n.command, buildArgs(notification)...)
	return cmd.Run()
}

func buildArgs(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "tasknote")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	return args
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendDueReminder sends a task due reminder
func (n *Notifier) SendDueReminder(taskTitle string, dueIn time.Duration) error {
	return n.Send(dueReminder(taskTitle, dueIn))
}

func dueReminder(taskTitle string, dueIn time.Duration) Notification {
	var body string
	if dueIn <= 0 {
		body = "Task is now overdue!"
	} else if dueIn < time.Hour {
		body = "Task due in less than an hour"
	} else {
		body = "Task due soon"
	}

	urgency := UrgencyNormal
	if dueIn <= 0 {
		urgency = UrgencyCritical
	}

	return Notification{
		Title:   taskTitle,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	}
}
