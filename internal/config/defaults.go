package config

// Core daemons whose loss takes the session or the host down with them.
var defaultProtected = []string{
	"init",
	"systemd",
	"kthreadd",
	"dbus-daemon",
	"NetworkManager",
	"sshd",
	"launchd",
	"kernel_task",
}

// Well-known service ports: SSH, SMTP, DNS, HTTP/S, POP3, IMAP.
var defaultProtectedPorts = []int{22, 25, 53, 80, 110, 143, 443, 993, 995}
