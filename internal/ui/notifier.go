package ui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/piwi3910/FilletCorners/internal/host"
	"github.com/piwi3910/FilletCorners/internal/logging"
)

// dialogNotifier shows engine notifications as dialogs on window.
type dialogNotifier struct {
	window fyne.Window
}

var _ host.Notifier = dialogNotifier{}

func (n dialogNotifier) Notify(_ context.Context, message string, severity host.Severity) {
	logging.Logger().Info("notification", "severity", severity.String(), "message", message)
	fyne.Do(func() {
		if severity == host.SeverityError {
			dialog.ShowError(errors.New(message), n.window)
			return
		}
		dialog.ShowInformation(notificationTitle(severity), message, n.window)
	})
}

func notificationTitle(severity host.Severity) string {
	switch severity {
	case host.SeveritySuccess:
		return "Fillet Complete"
	case host.SeverityError:
		return "Fillet Failed"
	default:
		return "Fillet Corners"
	}
}
