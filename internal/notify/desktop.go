package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// RequestPermission resolves the one-time desktop notification grant. The
// toggle comes from configuration; an explicit opt-in maps to granted,
// anything else stays at default and the channel no-ops.
func RequestPermission(enabled bool) Permission {
	if enabled {
		return PermissionGranted
	}
	return PermissionDefault
}

// DesktopDispatcher delivers native desktop notifications via the host's
// notifier command. Without a granted permission every dispatch is a no-op
// that reports ErrPermissionDenied.
type DesktopDispatcher struct {
	permission Permission
	send       func(title, body string) error
}

func NewDesktopDispatcher(permission Permission) *DesktopDispatcher {
	return &DesktopDispatcher{permission: permission, send: sendNative}
}

func (d *DesktopDispatcher) Dispatch(ctx context.Context, n Notification) error {
	if d.permission != PermissionGranted {
		return ErrPermissionDenied
	}
	if err := ctx.Err(); err != nil {
		return &TransportError{Channel: "desktop", Err: err}
	}
	if err := d.send(n.Title, n.Body); err != nil {
		return &TransportError{Channel: "desktop", Err: err}
	}
	return nil
}

func sendNative(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
