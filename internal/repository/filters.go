package repository

// Sort selects an ordering column. Implementations always append the primary
// key in the same direction as a tie-break, so repeated calls return rows in
// the same order.
type Sort struct {
	Field string
	Desc  bool
}

// Sortable columns per entity. The first entry is the default.
var (
	UserSortFields         = []string{"created_at", "name", "email"}
	CourseSortFields       = []string{"created_at", "title", "price_cents"}
	EnrollmentSortFields   = []string{"enrolled_at", "progress"}
	OrderSortFields        = []string{"created_at", "amount_cents"}
	NotificationSortFields = []string{"created_at"}
	CertificateSortFields  = []string{"issued_at"}
)

// The filters below are the single filter object handed to both the
// count and the fetch side of a list query. Zero values mean "no constraint".

// UserFilter narrows user listings. Search matches name or email, case-insensitive.
type UserFilter struct {
	Role   string
	Status string
	Search string
	Sort   Sort
}

// CourseFilter narrows catalog listings. Search matches the title.
type CourseFilter struct {
	TeacherID int64
	Status    string
	Level     string
	Search    string
	Sort      Sort
}

type EnrollmentFilter struct {
	UserID   int64
	CourseID int64
	Status   string
	Sort     Sort
}

type OrderFilter struct {
	UserID   int64
	CourseID int64
	Status   string
	Sort     Sort
}

// NotificationFilter narrows a user's inbox; UnreadOnly drops read messages.
type NotificationFilter struct {
	UserID     int64
	Kind       string
	UnreadOnly bool
	Sort       Sort
}

type CertificateFilter struct {
	UserID   int64
	CourseID int64
	Sort     Sort
}

// SortOrDefault fills an empty sort field with the entity default.
func SortOrDefault(s Sort, allowed []string) Sort {
	if s.Field == "" && len(allowed) > 0 {
		s.Field = allowed[0]
	}
	return s
}

// IsSortable reports whether field is in allowed.
func IsSortable(field string, allowed []string) bool {
	for _, f := range allowed {
		if f == field {
			return true
		}
	}
	return false
}
