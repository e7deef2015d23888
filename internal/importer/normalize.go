package importer

import (
	"fmt"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
	"github.com/wamiq271801/School-Management-sub000/internal/matcher"
)

// NormalizeRow converts a validated row into the target record shape. It is a
// pure, total function: every field has a defined fallback, and guardian
// blocks that were never filled in stay absent rather than null-filled.
func NormalizeRow(row domain.ParsedRow) domain.StudentRecord {
	data := row.Data

	record := domain.StudentRecord{
		AdmissionNumber: data[fieldAdmissionNumber],
		RollNumber:      data[fieldRollNumber],
		FirstName:       data[fieldFirstName],
		LastName:        data[fieldLastName],
		Gender:          data[fieldGender],
		DateOfBirth:     data[fieldDOB],
		Class:           data[fieldAdmissionClass],
		Section:         data[fieldSection],
		Session:         data[fieldSession],
		Category:        data[fieldCategory],
		BloodGroup:      data[fieldBloodGroup],
		Nationality:     data[fieldNationality],
		Religion:        data[fieldReligion],
		AadhaarNumber:   data[fieldAadhaarNumber],
		Email:           data[fieldEmail],
		Mobile:          data[fieldMobile],
		PrimaryContact:  domain.ContactRole(data[fieldPrimaryContact]),
	}

	if record.Nationality == "" {
		record.Nationality = domain.DefaultNationality
	}

	if data[fieldFatherName] != "" || data[fieldFatherMobile] != "" {
		record.Father = &domain.Contact{
			Name:       data[fieldFatherName],
			Mobile:     data[fieldFatherMobile],
			Email:      data[fieldFatherEmail],
			Occupation: data[fieldFatherOccupation],
		}
	}
	if data[fieldMotherName] != "" || data[fieldMotherMobile] != "" {
		record.Mother = &domain.Contact{
			Name:       data[fieldMotherName],
			Mobile:     data[fieldMotherMobile],
			Occupation: data[fieldMotherOccupation],
		}
	}
	if data[fieldGuardianName] != "" || data[fieldGuardianMobile] != "" {
		record.Guardian = &domain.Contact{
			Name:     data[fieldGuardianName],
			Mobile:   data[fieldGuardianMobile],
			Relation: data[fieldGuardianRelation],
		}
	}

	if data[fieldAddressLine1] != "" || data[fieldCity] != "" || data[fieldState] != "" || data[fieldPincode] != "" {
		record.Address = &domain.Address{
			Line1:   data[fieldAddressLine1],
			City:    data[fieldCity],
			State:   data[fieldState],
			Pincode: data[fieldPincode],
		}
	}

	if data[fieldHasPreviousSchool] == "Yes" {
		record.PreviousSchool = &domain.PreviousSchool{
			Name:      data[fieldPreviousSchoolName],
			LastClass: data[fieldPreviousSchoolClass],
		}
	}

	return record
}

// RowKey identifies a row for document matching: the normalized admission
// number when present, otherwise a synthetic per-row key.
func RowKey(row domain.ParsedRow) string {
	if normalized := matcher.NormalizeAdmissionNumber(row.Data[fieldAdmissionNumber]); normalized != "" {
		return normalized
	}
	return fmt.Sprintf("row-%d", row.RowNumber)
}

// Candidates reduces parsed rows to the keys the document matcher needs.
// Invalid rows are excluded: they will never commit, so files should not be
// claimed by them.
func Candidates(rows []domain.ParsedRow) []matcher.Candidate {
	candidates := make([]matcher.Candidate, 0, len(rows))
	for _, row := range rows {
		if !row.Importable() {
			continue
		}
		candidates = append(candidates, matcher.Candidate{
			ID:              RowKey(row),
			AdmissionNumber: row.Data[fieldAdmissionNumber],
			RollNumber:      row.Data[fieldRollNumber],
			FirstName:       row.Data[fieldFirstName],
			LastName:        row.Data[fieldLastName],
		})
	}
	return candidates
}
