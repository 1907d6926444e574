package hunt

import "strings"

// Authenticator validates team credentials. Kept as a narrow interface so
// the comparison could be strengthened (hashing, rate limits) without
// touching the progression engine.
type Authenticator interface {
	Authenticate(name, password string) (Team, bool)
}

// Authenticate matches the team name case-insensitively and the password
// byte for byte against the registry. Passwords are stored in the clear;
// hardening them is out of scope for this game.
func Authenticate(teams []Team, name, password string) (Team, bool) {
	for _, t := range teams {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) && t.Password == password {
			return t, true
		}
	}
	return Team{}, false
}
