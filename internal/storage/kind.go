package storage

import "strings"

// Kind identifies which authority a --store target selects.
type Kind string

const (
	KindRemote   Kind = "remote"
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// KindOf classifies a store target: http(s) URLs are REST authorities,
// postgres(ql) URLs and key=value DSNs with host= are PostgreSQL, and
// anything else is a SQLite file path.
func KindOf(target string) Kind {
	t := strings.ToLower(strings.TrimSpace(target))
	switch {
	case strings.HasPrefix(t, "http://"), strings.HasPrefix(t, "https://"):
		return KindRemote
	case strings.HasPrefix(t, "postgres://"), strings.HasPrefix(t, "postgresql://"):
		return KindPostgres
	case strings.Contains(t, "host=") && strings.Contains(t, "dbname="):
		return KindPostgres
	default:
		return KindSQLite
	}
}
