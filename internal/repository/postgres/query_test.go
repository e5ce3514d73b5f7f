package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/coursehub-service/internal/repository"
)

func TestWhere_PlaceholdersNumberAcrossConditions(t *testing.T) {
	var sp where
	sp.add("role = ?", "teacher")
	sp.add("(name ILIKE ? OR email ILIKE ?)", "%a%", "%a%")
	sp.add("read_at IS NULL")

	assert.Equal(t, " WHERE role = $1 AND (name ILIKE $2 OR email ILIKE $3) AND read_at IS NULL", sp.clause())
	assert.Equal(t, []any{"teacher", "%a%", "%a%"}, sp.args)
}

func TestWhere_EmptyHasNoWhere(t *testing.T) {
	assert.Equal(t, "", where{}.clause())
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name string
		sort repository.Sort
		want string
	}{
		{"default", repository.Sort{}, "created_at ASC, id ASC"},
		{"desc", repository.Sort{Field: "name", Desc: true}, "name DESC, id DESC"},
		{"unknown falls back", repository.Sort{Field: "password; DROP"}, "created_at ASC, id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.sort, repository.UserSortFields))
		})
	}
}

func TestFilterWhereClauses(t *testing.T) {
	sp := courseWhere(repository.CourseFilter{TeacherID: 7, Status: "published", Search: "go"})
	assert.Equal(t, " WHERE teacher_id = $1 AND status = $2 AND title ILIKE $3", sp.clause())
	assert.Equal(t, []any{int64(7), "published", "%go%"}, sp.args)

	sp = notificationWhere(repository.NotificationFilter{UserID: 3, UnreadOnly: true})
	assert.Equal(t, " WHERE user_id = $1 AND read_at IS NULL", sp.clause())
}
