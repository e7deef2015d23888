package repository

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

const tableStudents = "students"

type studentRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

// NewStudentRepository wires the production create-student collaborator.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *studentRepository) Create(ctx context.Context, record domain.StudentRecord) error {
	// Contact, address, schooling and document blocks are stored as jsonb;
	// the console reads them back as a unit.
	details, err := json.Marshal(struct {
		Father         *domain.Contact                            `json:"father,omitempty"`
		Mother         *domain.Contact                            `json:"mother,omitempty"`
		Guardian       *domain.Contact                            `json:"guardian,omitempty"`
		Address        *domain.Address                            `json:"address,omitempty"`
		PreviousSchool *domain.PreviousSchool                     `json:"previousSchool,omitempty"`
		Documents      map[domain.DocumentType]domain.DocumentRef `json:"documents,omitempty"`
	}{
		Father:         record.Father,
		Mother:         record.Mother,
		Guardian:       record.Guardian,
		Address:        record.Address,
		PreviousSchool: record.PreviousSchool,
		Documents:      record.Documents,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal student details: %w", err)
	}

	sql, args, err := r.qb.
		Insert(tableStudents).
		Columns(
			"admission_number", "roll_number", "first_name", "last_name",
			"gender", "date_of_birth", "class", "section", "session",
			"category", "blood_group", "nationality", "religion",
			"aadhaar_number", "email", "mobile", "primary_contact", "details",
		).
		Values(
			record.AdmissionNumber, record.RollNumber, record.FirstName,
			record.LastName, record.Gender, record.DateOfBirth, record.Class,
			record.Section, record.Session, record.Category, record.BloodGroup,
			record.Nationality, record.Religion, record.AadhaarNumber,
			record.Email, record.Mobile, record.PrimaryContact, details,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}
