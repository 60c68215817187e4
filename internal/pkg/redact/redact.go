// redact маскирует секреты перед записью в лог.
package redact

import (
	"net/url"
	"strings"
)

// Password возвращает литерал-заглушку для пароля в логах.
func Password() string { return "[REDACTED_PASSWORD]" }

// URL маскирует пароль в строке подключения (postgres://, mongodb://, redis://).
//
// Правила:
//   - пароль из userinfo заменяется на Password(), имя пользователя сохраняется;
//   - query-параметры password/secret/token маскируются так же;
//   - строка, которую не удалось разобрать, возвращается как "***".
//
// Примеры:
//
//	"postgres://user:pass@db:5432/app" -> "postgres://user:[REDACTED_PASSWORD]@db:5432/app"
//	"redis://localhost:6379/0"         -> "redis://localhost:6379/0"
func URL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "***"
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), Password())
		}
	}

	q := u.Query()
	masked := false
	for k := range q {
		switch strings.ToLower(k) {
		case "password", "secret", "token":
			q.Set(k, Password())
			masked = true
		}
	}
	if masked {
		u.RawQuery = q.Encode()
	}

	// url.String экранирует квадратные скобки заглушки — возвращаем читаемый вид.
	out := u.String()
	return strings.NewReplacer("%5B", "[", "%5D", "]").Replace(out)
}
