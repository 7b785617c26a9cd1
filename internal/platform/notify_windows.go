//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Notify shows a toast notification.
func Notify(title, body string, opts Options) error {
	return exec.Command("powershell.exe", "-NoProfile", "-Command", toastScript(title, body, opts)).Run()
}

func toastScript(title, body string, opts Options) string {
	var b strings.Builder
	tmpl := "ToastText02"
	icon := strings.TrimSpace(opts.IconPath)
	if icon != "" {
		tmpl = "ToastImageAndText02"
	}
	b.WriteString("[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; ")
	fmt.Fprintf(&b, "$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s); ", tmpl)
	b.WriteString(`$texts = $t.GetElementsByTagName("text"); `)
	fmt.Fprintf(&b, "$texts.Item(0).AppendChild($t.CreateTextNode(%s)) > $null; ", psQuote(title))
	fmt.Fprintf(&b, "$texts.Item(1).AppendChild($t.CreateTextNode(%s)) > $null; ", psQuote(body))
	if icon != "" {
		fmt.Fprintf(&b, `$t.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	b.WriteString("$toast = [Windows.UI.Notifications.ToastNotification]::new($t); ")
	fmt.Fprintf(&b, "[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast);", psQuote(AppName))
	return b.String()
}
