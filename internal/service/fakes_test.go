package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
)

// In-memory repository fakes. Each keeps rows in a slice/map and mirrors the
// SQL repositories' contracts, including the nil-on-missing convention.

type fakeStudentRepo struct {
	students []*model.Student
}

func (f *fakeStudentRepo) FindAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error) {
	out := []*model.Student{}
	for _, s := range f.students {
		if filter.Class != "" && s.CurrentClass != filter.Class {
			continue
		}
		if filter.Search != "" && !strings.Contains(s.FullName, filter.Search) &&
			!strings.Contains(s.AdmissionNumber, filter.Search) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) FindByAdmissionNumber(ctx context.Context, admissionNumber string) (*model.Student, error) {
	for _, s := range f.students {
		if s.AdmissionNumber == admissionNumber {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) FindByClass(ctx context.Context, class string) ([]*model.Student, error) {
	out := []*model.Student{}
	for _, s := range f.students {
		if s.CurrentClass == class && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *model.Student) error {
	f.students = append(f.students, student)
	return nil
}

// Update writes only the columns the SQL statement sets. Other fields of the
// passed struct, pin_hash included, are ignored just like in the real query.
func (f *fakeStudentRepo) Update(ctx context.Context, student *model.Student) error {
	for _, s := range f.students {
		if s.ID == student.ID {
			s.FullName = student.FullName
			s.Gender = student.Gender
			s.DateOfBirth = student.DateOfBirth
			s.CurrentClass = student.CurrentClass
			s.ParentPhone = student.ParentPhone
			s.ParentPhone2 = student.ParentPhone2
			return nil
		}
	}
	return errors.New("student not found")
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range f.students {
		if s.ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStudentRepo) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	for _, s := range f.students {
		if s.ID == id {
			s.PassportURL = &photoURL
		}
	}
	return nil
}

func (f *fakeStudentRepo) UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	for _, s := range f.students {
		if s.ID == id {
			s.PinHash = pinHash
		}
	}
	return nil
}

func (f *fakeStudentRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	for _, s := range f.students {
		if s.ID == id {
			s.IsActive = active
		}
	}
	return nil
}

func (f *fakeStudentRepo) Promote(ctx context.Context, fromClass, toClass string) (int64, error) {
	var moved int64
	for _, s := range f.students {
		if s.CurrentClass == fromClass {
			s.CurrentClass = toClass
			moved++
		}
	}
	return moved, nil
}

func (f *fakeStudentRepo) CountBySection(ctx context.Context, section model.Section) (int64, error) {
	var n int64
	for _, s := range f.students {
		if SectionForClass(s.CurrentClass) == section {
			n++
		}
	}
	return n, nil
}

type fakeStaffRepo struct {
	staff []*model.Staff
}

func (f *fakeStaffRepo) FindAll(ctx context.Context, filter model.StaffFilter) ([]*model.Staff, int64, error) {
	out := []*model.Staff{}
	for _, s := range f.staff {
		if filter.Role != "" && string(s.Role) != filter.Role {
			continue
		}
		if filter.Section != "" && string(s.Section) != filter.Section {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStaffRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	for _, s := range f.staff {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	for _, s := range f.staff {
		if s.Email == email {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) Create(ctx context.Context, staff *model.Staff) error {
	f.staff = append(f.staff, staff)
	return nil
}

// Update mirrors the SQL statement's column list; pin_hash is untouched.
func (f *fakeStaffRepo) Update(ctx context.Context, staff *model.Staff) error {
	for _, s := range f.staff {
		if s.ID == staff.ID {
			s.FullName = staff.FullName
			s.Email = staff.Email
			s.Role = staff.Role
			s.Section = staff.Section
			s.AssignedClass = staff.AssignedClass
			s.IsActive = staff.IsActive
			return nil
		}
	}
	return errors.New("staff not found")
}

func (f *fakeStaffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range f.staff {
		if s.ID == id {
			f.staff = append(f.staff[:i], f.staff[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStaffRepo) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	for _, s := range f.staff {
		if s.ID == id {
			s.PassportURL = &photoURL
		}
	}
	return nil
}

func (f *fakeStaffRepo) UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	for _, s := range f.staff {
		if s.ID == id {
			s.PinHash = pinHash
		}
	}
	return nil
}

func (f *fakeStaffRepo) CountTeachers(ctx context.Context, section model.Section) (int64, error) {
	var n int64
	for _, s := range f.staff {
		if s.Role == model.RoleTeacher && s.Section == section {
			n++
		}
	}
	return n, nil
}

type fakeResultRepo struct {
	results []*model.Result

	// failUpdateStatus simulates a transaction error inside UpdateStatus.
	failUpdateStatus bool
}

func (f *fakeResultRepo) UpsertBatch(ctx context.Context, results []*model.Result) error {
	for _, r := range results {
		replaced := false
		for i, existing := range f.results {
			if existing.StudentID == r.StudentID && existing.Subject == r.Subject &&
				existing.Term == r.Term && existing.Session == r.Session {
				r.ID = existing.ID
				f.results[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			f.results = append(f.results, r)
		}
	}
	return nil
}

func (f *fakeResultRepo) FindByStudent(ctx context.Context, studentID uuid.UUID, term, session string, status model.ResultStatus) ([]*model.Result, error) {
	out := []*model.Result{}
	for _, r := range f.results {
		if r.StudentID != studentID || r.Term != term || r.Session != session {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeResultRepo) FindPending(ctx context.Context) ([]*model.Result, error) {
	out := []*model.Result{}
	for _, r := range f.results {
		if r.Status == model.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) FindPendingIDs(ctx context.Context, classLevel, subject string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, r := range f.results {
		if r.Status == model.StatusPending && r.ClassLevel == classLevel && r.Subject == subject {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (f *fakeResultRepo) UpdateStatus(ctx context.Context, ids []uuid.UUID, status model.ResultStatus) (int64, error) {
	if f.failUpdateStatus {
		return 0, errors.New("transaction aborted")
	}
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var n int64
	for _, r := range f.results {
		if want[r.ID] {
			r.Status = status
			n++
		}
	}
	return n, nil
}

func (f *fakeResultRepo) FindApprovedByClass(ctx context.Context, classLevel, term, session string) ([]*model.Result, error) {
	out := []*model.Result{}
	for _, r := range f.results {
		if r.Status == model.StatusApproved && r.ClassLevel == classLevel &&
			r.Term == term && r.Session == session {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) CountByStatus(ctx context.Context, status model.ResultStatus) (int64, error) {
	var n int64
	for _, r := range f.results {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	payments []*model.Payment
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	if payment.Purpose == model.PurposePinPurchase {
		for _, p := range f.payments {
			if p.Purpose == model.PurposePinPurchase && p.StudentID == payment.StudentID &&
				p.Term == payment.Term && p.Session == payment.Session {
				return errors.New("unique constraint violation")
			}
		}
	}
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakePaymentRepo) FindRecent(ctx context.Context, limit int) ([]*model.Payment, error) {
	if limit >= len(f.payments) {
		return f.payments, nil
	}
	return f.payments[len(f.payments)-limit:], nil
}

func (f *fakePaymentRepo) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Payment, error) {
	out := []*model.Payment{}
	for _, p := range f.payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) HasPinPurchase(ctx context.Context, studentID uuid.UUID, term, session string) (bool, error) {
	for _, p := range f.payments {
		if p.Purpose == model.PurposePinPurchase && p.StudentID == studentID &&
			p.Term == term && p.Session == session {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentRepo) PinPurchasedStudents(ctx context.Context, term, session string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, p := range f.payments {
		if p.Purpose == model.PurposePinPurchase && p.Term == term && p.Session == session {
			ids = append(ids, p.StudentID)
		}
	}
	return ids, nil
}

func (f *fakePaymentRepo) StatsSince(ctx context.Context, since time.Time) (*model.PaymentStats, error) {
	stats := &model.PaymentStats{}
	for _, p := range f.payments {
		if !p.CreatedAt.Before(since) {
			stats.CollectedToday += p.AmountPaid
			stats.PaymentsToday++
		}
	}
	return stats, nil
}

type fakeTermReportRepo struct {
	reports []*model.TermReport
}

func (f *fakeTermReportRepo) Upsert(ctx context.Context, report *model.TermReport) error {
	for i, r := range f.reports {
		if r.StudentID == report.StudentID && r.Term == report.Term && r.Session == report.Session {
			report.ID = r.ID
			f.reports[i] = report
			return nil
		}
	}
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeTermReportRepo) Find(ctx context.Context, studentID uuid.UUID, term, session string) (*model.TermReport, error) {
	for _, r := range f.reports {
		if r.StudentID == studentID && r.Term == term && r.Session == session {
			return r, nil
		}
	}
	return nil, nil
}

type fakeSchoolRepo struct {
	settings *model.SchoolSettings
	configs  map[string]*model.SchoolConfig
	updates  []*model.SchoolUpdate
	subjects []*model.Subject
}

func (f *fakeSchoolRepo) GetSettings(ctx context.Context) (*model.SchoolSettings, error) {
	return f.settings, nil
}

func (f *fakeSchoolRepo) UpdateSettings(ctx context.Context, term, session string) error {
	if f.settings == nil {
		f.settings = &model.SchoolSettings{ID: uuid.New()}
	}
	f.settings.CurrentTerm = term
	f.settings.CurrentSession = session
	return nil
}

func (f *fakeSchoolRepo) GetConfig(ctx context.Context, sectionType string) (*model.SchoolConfig, error) {
	if f.configs == nil {
		return nil, nil
	}
	return f.configs[sectionType], nil
}

func (f *fakeSchoolRepo) UpsertConfig(ctx context.Context, sectionType, nextTermBegins string) error {
	if f.configs == nil {
		f.configs = map[string]*model.SchoolConfig{}
	}
	f.configs[sectionType] = &model.SchoolConfig{SectionType: sectionType, NextTermBegins: nextTermBegins}
	return nil
}

func (f *fakeSchoolRepo) ListUpdates(ctx context.Context) ([]*model.SchoolUpdate, error) {
	return f.updates, nil
}

func (f *fakeSchoolRepo) CreateUpdate(ctx context.Context, update *model.SchoolUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeSchoolRepo) DeleteUpdate(ctx context.Context, id uuid.UUID) error {
	for i, u := range f.updates {
		if u.ID == id {
			f.updates = append(f.updates[:i], f.updates[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSchoolRepo) ListSubjects(ctx context.Context, sections []model.Section) ([]*model.Subject, error) {
	if sections == nil {
		return f.subjects, nil
	}
	want := map[model.Section]bool{}
	for _, s := range sections {
		want[s] = true
	}
	out := []*model.Subject{}
	for _, s := range f.subjects {
		if want[s.Section] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSchoolRepo) CreateSubject(ctx context.Context, subject *model.Subject) error {
	subject.ID = len(f.subjects) + 1
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakeSchoolRepo) DeleteSubject(ctx context.Context, id int) error {
	for i, s := range f.subjects {
		if s.ID == id {
			f.subjects = append(f.subjects[:i], f.subjects[i+1:]...)
			return nil
		}
	}
	return nil
}
