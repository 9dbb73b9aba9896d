package services

// fallbackUsernames seed the registry when no fresh cache record exists.
var fallbackUsernames = []string{
	"about", "abuse", "account", "accounts", "admin", "administrator",
	"api", "app", "apps", "assets", "auth", "billing",
	"blog", "cdn", "config", "contact", "dashboard", "dev",
	"docs", "download", "email", "faq", "feed", "ftp",
	"help", "home", "host", "info", "login", "logout",
	"mail", "moderator", "news", "null", "owner", "password",
	"postmaster", "privacy", "register", "root", "security", "settings",
	"signin", "signup", "static", "status", "support", "system",
	"terms", "test", "undefined", "user", "username", "users",
	"webmaster", "www",
}

// FallbackUsernames returns a copy of the embedded default list.
func FallbackUsernames() []string {
	out := make([]string, len(fallbackUsernames))
	copy(out, fallbackUsernames)
	return out
}
