package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// oneOf stands in for the CHECK constraints of the SQL schema.
func oneOf(v string, allowed ...string) bool { return slices.Contains(allowed, v) }

func byTime(a, b time.Time) int { return a.Compare(b) }

type userRepository struct{ db *DB }

var userKeys = sortKeys[model.User]{
	"created_at": func(a, b model.User) int { return byTime(a.CreatedAt, b.CreatedAt) },
	"name":       func(a, b model.User) int { return cmp.Compare(a.Name, b.Name) },
	"email":      func(a, b model.User) int { return cmp.Compare(a.Email, b.Email) },
}

func (r *userRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	if !oneOf(u.Role, model.RoleStudent, model.RoleTeacher, model.RoleAdmin) ||
		!oneOf(u.Status, model.UserActive, model.UserBlocked) {
		return model.User{}, repository.ErrConflict
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users.rows {
		if existing.Email == u.Email {
			return model.User{}, repository.ErrAlreadyExists
		}
	}
	now := r.db.now()
	u.CreatedAt, u.UpdatedAt = now, now
	return r.db.users.insert(func(u *model.User) *int64 { return &u.ID }, u), nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if u, ok := r.db.users.rows[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (r *userRepository) List(ctx context.Context, f repository.UserFilter, req pagination.Request) (pagination.Result[model.User], error) {
	m := func(u model.User) bool {
		return (f.Role == "" || u.Role == f.Role) &&
			(f.Status == "" || u.Status == f.Status) &&
			(f.Search == "" || containsFold(u.Name, f.Search) || containsFold(u.Email, f.Search))
	}
	order := orderFunc(f.Sort, repository.UserSortFields, userKeys, func(u model.User) int64 { return u.ID })
	return listPage(ctx, r.db, func() map[int64]model.User { return r.db.users.rows }, m, order, req)
}

type courseRepository struct{ db *DB }

var courseKeys = sortKeys[model.Course]{
	"created_at":  func(a, b model.Course) int { return byTime(a.CreatedAt, b.CreatedAt) },
	"title":       func(a, b model.Course) int { return cmp.Compare(a.Title, b.Title) },
	"price_cents": func(a, b model.Course) int { return cmp.Compare(a.PriceCents, b.PriceCents) },
}

func (r *courseRepository) Create(ctx context.Context, c model.Course) (model.Course, error) {
	if err := ctx.Err(); err != nil {
		return model.Course{}, err
	}
	if !oneOf(c.Level, model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced) ||
		!oneOf(c.Status, model.CourseDraft, model.CoursePublished, model.CourseArchived) ||
		c.PriceCents < 0 {
		return model.Course{}, repository.ErrConflict
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users.rows[c.TeacherID]; !ok {
		return model.Course{}, repository.ErrConflict
	}
	for _, existing := range r.db.courses.rows {
		if existing.Slug == c.Slug {
			return model.Course{}, repository.ErrAlreadyExists
		}
	}
	now := r.db.now()
	c.CreatedAt, c.UpdatedAt = now, now
	return r.db.courses.insert(func(c *model.Course) *int64 { return &c.ID }, c), nil
}

func (r *courseRepository) GetByID(ctx context.Context, id int64) (model.Course, error) {
	if err := ctx.Err(); err != nil {
		return model.Course{}, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if c, ok := r.db.courses.rows[id]; ok {
		return c, nil
	}
	return model.Course{}, repository.ErrNotFound
}

func (r *courseRepository) List(ctx context.Context, f repository.CourseFilter, req pagination.Request) (pagination.Result[model.Course], error) {
	m := func(c model.Course) bool {
		return (f.TeacherID == 0 || c.TeacherID == f.TeacherID) &&
			(f.Status == "" || c.Status == f.Status) &&
			(f.Level == "" || c.Level == f.Level) &&
			(f.Search == "" || containsFold(c.Title, f.Search))
	}
	order := orderFunc(f.Sort, repository.CourseSortFields, courseKeys, func(c model.Course) int64 { return c.ID })
	return listPage(ctx, r.db, func() map[int64]model.Course { return r.db.courses.rows }, m, order, req)
}

type enrollmentRepository struct{ db *DB }

var enrollmentKeys = sortKeys[model.Enrollment]{
	"enrolled_at": func(a, b model.Enrollment) int { return byTime(a.EnrolledAt, b.EnrolledAt) },
	"progress":    func(a, b model.Enrollment) int { return cmp.Compare(a.Progress, b.Progress) },
}

func (r *enrollmentRepository) Create(ctx context.Context, e model.Enrollment) (model.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return model.Enrollment{}, err
	}
	if !oneOf(e.Status, model.EnrollmentActive, model.EnrollmentCompleted, model.EnrollmentCancelled) ||
		e.Progress < 0 || e.Progress > 100 {
		return model.Enrollment{}, repository.ErrConflict
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.userAndCourseExist(e.UserID, e.CourseID) {
		return model.Enrollment{}, repository.ErrConflict
	}
	for _, existing := range r.db.enrollments.rows {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return model.Enrollment{}, repository.ErrAlreadyExists
		}
	}
	e.EnrolledAt = r.db.now()
	return r.db.enrollments.insert(func(e *model.Enrollment) *int64 { return &e.ID }, e), nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id int64) (model.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return model.Enrollment{}, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if e, ok := r.db.enrollments.rows[id]; ok {
		return e, nil
	}
	return model.Enrollment{}, repository.ErrNotFound
}

func (r *enrollmentRepository) List(ctx context.Context, f repository.EnrollmentFilter, req pagination.Request) (pagination.Result[model.Enrollment], error) {
	m := func(e model.Enrollment) bool {
		return (f.UserID == 0 || e.UserID == f.UserID) &&
			(f.CourseID == 0 || e.CourseID == f.CourseID) &&
			(f.Status == "" || e.Status == f.Status)
	}
	order := orderFunc(f.Sort, repository.EnrollmentSortFields, enrollmentKeys, func(e model.Enrollment) int64 { return e.ID })
	return listPage(ctx, r.db, func() map[int64]model.Enrollment { return r.db.enrollments.rows }, m, order, req)
}

type orderRepository struct{ db *DB }

var orderKeys = sortKeys[model.Order]{
	"created_at":   func(a, b model.Order) int { return byTime(a.CreatedAt, b.CreatedAt) },
	"amount_cents": func(a, b model.Order) int { return cmp.Compare(a.AmountCents, b.AmountCents) },
}

func (r *orderRepository) Create(ctx context.Context, o model.Order) (model.Order, error) {
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}
	if !oneOf(o.Status, model.OrderPending, model.OrderPaid, model.OrderRefunded, model.OrderFailed) ||
		o.AmountCents < 0 {
		return model.Order{}, repository.ErrConflict
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.userAndCourseExist(o.UserID, o.CourseID) {
		return model.Order{}, repository.ErrConflict
	}
	o.CreatedAt = r.db.now()
	return r.db.orders.insert(func(o *model.Order) *int64 { return &o.ID }, o), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (model.Order, error) {
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if o, ok := r.db.orders.rows[id]; ok {
		return o, nil
	}
	return model.Order{}, repository.ErrNotFound
}

func (r *orderRepository) List(ctx context.Context, f repository.OrderFilter, req pagination.Request) (pagination.Result[model.Order], error) {
	m := func(o model.Order) bool {
		return (f.UserID == 0 || o.UserID == f.UserID) &&
			(f.CourseID == 0 || o.CourseID == f.CourseID) &&
			(f.Status == "" || o.Status == f.Status)
	}
	order := orderFunc(f.Sort, repository.OrderSortFields, orderKeys, func(o model.Order) int64 { return o.ID })
	return listPage(ctx, r.db, func() map[int64]model.Order { return r.db.orders.rows }, m, order, req)
}

type notificationRepository struct{ db *DB }

var notificationKeys = sortKeys[model.Notification]{
	"created_at": func(a, b model.Notification) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

func (r *notificationRepository) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := ctx.Err(); err != nil {
		return model.Notification{}, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users.rows[n.UserID]; !ok {
		return model.Notification{}, repository.ErrConflict
	}
	n.ReadAt = nil
	n.CreatedAt = r.db.now()
	return r.db.notifications.insert(func(n *model.Notification) *int64 { return &n.ID }, n), nil
}

func (r *notificationRepository) List(ctx context.Context, f repository.NotificationFilter, req pagination.Request) (pagination.Result[model.Notification], error) {
	m := func(n model.Notification) bool {
		return (f.UserID == 0 || n.UserID == f.UserID) &&
			(f.Kind == "" || n.Kind == f.Kind) &&
			(!f.UnreadOnly || n.ReadAt == nil)
	}
	order := orderFunc(f.Sort, repository.NotificationSortFields, notificationKeys, func(n model.Notification) int64 { return n.ID })
	return listPage(ctx, r.db, func() map[int64]model.Notification { return r.db.notifications.rows }, m, order, req)
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id int64, at time.Time) (model.Notification, error) {
	if err := ctx.Err(); err != nil {
		return model.Notification{}, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.notifications.rows[id]
	if !ok || n.UserID != userID {
		return model.Notification{}, repository.ErrNotFound
	}
	if n.ReadAt == nil {
		n.ReadAt = &at
		r.db.notifications.rows[id] = n
	}
	return n, nil
}

type certificateRepository struct{ db *DB }

var certificateKeys = sortKeys[model.Certificate]{
	"issued_at": func(a, b model.Certificate) int { return byTime(a.IssuedAt, b.IssuedAt) },
}

func (r *certificateRepository) Create(ctx context.Context, c model.Certificate) (model.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return model.Certificate{}, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.userAndCourseExist(c.UserID, c.CourseID) {
		return model.Certificate{}, repository.ErrConflict
	}
	for _, existing := range r.db.certificates.rows {
		if existing.Code == c.Code || (existing.UserID == c.UserID && existing.CourseID == c.CourseID) {
			return model.Certificate{}, repository.ErrAlreadyExists
		}
	}
	c.IssuedAt = r.db.now()
	return r.db.certificates.insert(func(c *model.Certificate) *int64 { return &c.ID }, c), nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id int64) (model.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return model.Certificate{}, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if c, ok := r.db.certificates.rows[id]; ok {
		return c, nil
	}
	return model.Certificate{}, repository.ErrNotFound
}

func (r *certificateRepository) List(ctx context.Context, f repository.CertificateFilter, req pagination.Request) (pagination.Result[model.Certificate], error) {
	m := func(c model.Certificate) bool {
		return (f.UserID == 0 || c.UserID == f.UserID) &&
			(f.CourseID == 0 || c.CourseID == f.CourseID)
	}
	order := orderFunc(f.Sort, repository.CertificateSortFields, certificateKeys, func(c model.Certificate) int64 { return c.ID })
	return listPage(ctx, r.db, func() map[int64]model.Certificate { return r.db.certificates.rows }, m, order, req)
}

// userAndCourseExist must be called with db.mu held.
func (db *DB) userAndCourseExist(userID, courseID int64) bool {
	_, u := db.users.rows[userID]
	_, c := db.courses.rows[courseID]
	return u && c
}

var (
	_ repository.UserRepository         = (*userRepository)(nil)
	_ repository.CourseRepository       = (*courseRepository)(nil)
	_ repository.EnrollmentRepository   = (*enrollmentRepository)(nil)
	_ repository.OrderRepository        = (*orderRepository)(nil)
	_ repository.NotificationRepository = (*notificationRepository)(nil)
	_ repository.CertificateRepository  = (*certificateRepository)(nil)
	_ repository.TxManager              = (*txManager)(nil)
)
