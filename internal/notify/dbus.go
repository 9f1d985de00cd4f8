//go:build linux

package notify

import "github.com/godbus/dbus/v5"

const (
	serviceName = "org.freedesktop.Notifications"
	servicePath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall  = serviceName + ".Notify"
	appName     = "duoplay"
)

type busNotifier struct {
	service dbus.BusObject
}

// New returns a Notifier talking to the desktop notification service, or
// Discard when no session bus can be reached.
func New() Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Discard{}
	}
	return busNotifier{service: conn.Object(serviceName, servicePath)}
}

func (b busNotifier) Notify(n Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(appName),
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
	}
	var id uint32
	err := b.service.Call(notifyCall, 0,
		appName, n.ReplacesID, n.Icon, n.Summary, n.Body,
		[]string{}, hints, int32(n.Timeout.Milliseconds()),
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
