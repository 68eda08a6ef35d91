package lead

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"leadmanager/internal/database"
)

// Filter is the set of optional list conditions.
type Filter struct {
	Search    string
	Status    Status
	StartDate *time.Time
	EndDate   *time.Time
}

// ParseFilter builds a Filter from raw query values. Dates that do not parse
// are treated as absent.
func ParseFilter(search, status, startDate, endDate string) Filter {
	f := Filter{
		Search: strings.TrimSpace(search),
		Status: Status(strings.TrimSpace(status)),
	}
	if t, err := parseDate(strings.TrimSpace(startDate)); err == nil {
		f.StartDate = &t
	}
	if t, err := parseDate(strings.TrimSpace(endDate)); err == nil {
		f.EndDate = &t
	}
	return f
}

// HasDateRange reports whether the created-at range applies. A single bound
// is ignored.
func (f Filter) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// likeEscaper makes the search text match literally under ESCAPE '!'.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// Scope returns the predicate as a gorm scope. The list and count queries of a
// request must both be built with it.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
			lower := lowerFunc(db)
			db = db.Where(
				db.Session(&gorm.Session{NewDB: true}).
					Where(lower+`(name) LIKE ? ESCAPE '!'`, pattern).
					Or(lower+`(email) LIKE ? ESCAPE '!'`, pattern).
					Or(lower+`(phone) LIKE ? ESCAPE '!'`, pattern),
			)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.HasDateRange() {
			db = db.Where("created_at >= ? AND created_at <= ?", *f.StartDate, *f.EndDate)
		}
		return db
	}
}

// lowerFunc names the SQL function that lowercases like strings.ToLower.
// postgres LOWER is Unicode-aware; sqlite's is ASCII-only.
func lowerFunc(db *gorm.DB) string {
	if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
		return database.SQLiteLower
	}
	return "LOWER"
}
