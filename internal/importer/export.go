package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// Export formats for the error report download.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// errorExportRow is one line of the downloadable error report: bookkeeping
// columns first, then every original template column so the user can fix the
// file in place.
type errorExportRow struct {
	RowNumber int    `csv:"Row Number"`
	Status    string `csv:"Status"`
	Errors    string `csv:"Errors"`
	Warnings  string `csv:"Warnings"`

	FirstName           string `csv:"First Name*"`
	LastName            string `csv:"Last Name*"`
	Gender              string `csv:"Gender*"`
	DateOfBirth         string `csv:"Date of Birth* (YYYY-MM-DD)"`
	Class               string `csv:"Class*"`
	Section             string `csv:"Section*"`
	Session             string `csv:"Academic Session*"`
	Category            string `csv:"Category*"`
	BloodGroup          string `csv:"Blood Group"`
	Nationality         string `csv:"Nationality"`
	Religion            string `csv:"Religion"`
	AadhaarNumber       string `csv:"Aadhaar Number"`
	RollNumber          string `csv:"Roll Number"`
	AdmissionNumber     string `csv:"Admission Number"`
	Email               string `csv:"Email"`
	Mobile              string `csv:"Mobile Number"`
	PrimaryContact      string `csv:"Primary Contact*"`
	FatherName          string `csv:"Father's Name"`
	FatherMobile        string `csv:"Father's Mobile"`
	FatherEmail         string `csv:"Father's Email"`
	FatherOccupation    string `csv:"Father's Occupation"`
	MotherName          string `csv:"Mother's Name"`
	MotherMobile        string `csv:"Mother's Mobile"`
	MotherOccupation    string `csv:"Mother's Occupation"`
	GuardianName        string `csv:"Guardian's Name"`
	GuardianMobile      string `csv:"Guardian's Mobile"`
	GuardianRelation    string `csv:"Guardian's Relation"`
	AddressLine1        string `csv:"Address Line 1"`
	City                string `csv:"City"`
	State               string `csv:"State"`
	Pincode             string `csv:"Pincode"`
	HasPreviousSchool   string `csv:"Previous School (Yes/No)"`
	PreviousSchoolName  string `csv:"Previous School Name"`
	PreviousSchoolClass string `csv:"Last Class Attended"`
}

func joinIssues(issues []domain.ValidationIssue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.Field + ": " + issue.Message
	}
	return strings.Join(parts, "; ")
}

func buildExportRow(row domain.ParsedRow) errorExportRow {
	data := row.Data
	return errorExportRow{
		RowNumber: row.RowNumber,
		Status:    string(row.Status),
		Errors:    joinIssues(row.Errors),
		Warnings:  joinIssues(row.Warnings),

		FirstName:           data[fieldFirstName],
		LastName:            data[fieldLastName],
		Gender:              data[fieldGender],
		DateOfBirth:         data[fieldDOB],
		Class:               data[fieldAdmissionClass],
		Section:             data[fieldSection],
		Session:             data[fieldSession],
		Category:            data[fieldCategory],
		BloodGroup:          data[fieldBloodGroup],
		Nationality:         data[fieldNationality],
		Religion:            data[fieldReligion],
		AadhaarNumber:       data[fieldAadhaarNumber],
		RollNumber:          data[fieldRollNumber],
		AdmissionNumber:     data[fieldAdmissionNumber],
		Email:               data[fieldEmail],
		Mobile:              data[fieldMobile],
		PrimaryContact:      data[fieldPrimaryContact],
		FatherName:          data[fieldFatherName],
		FatherMobile:        data[fieldFatherMobile],
		FatherEmail:         data[fieldFatherEmail],
		FatherOccupation:    data[fieldFatherOccupation],
		MotherName:          data[fieldMotherName],
		MotherMobile:        data[fieldMotherMobile],
		MotherOccupation:    data[fieldMotherOccupation],
		GuardianName:        data[fieldGuardianName],
		GuardianMobile:      data[fieldGuardianMobile],
		GuardianRelation:    data[fieldGuardianRelation],
		AddressLine1:        data[fieldAddressLine1],
		City:                data[fieldCity],
		State:               data[fieldState],
		Pincode:             data[fieldPincode],
		HasPreviousSchool:   data[fieldHasPreviousSchool],
		PreviousSchoolName:  data[fieldPreviousSchoolName],
		PreviousSchoolClass: data[fieldPreviousSchoolClass],
	}
}

// ExportErrors renders the error report for a parse result: one row per
// invalid or warning row.
func ExportErrors(result *ParseResult, format string) ([]byte, string, error) {
	exportRows := make([]errorExportRow, 0, result.InvalidRows+result.WarningRows)
	for _, row := range result.Rows {
		if row.Status == domain.RowStatusValid {
			continue
		}
		exportRows = append(exportRows, buildExportRow(row))
	}

	switch format {
	case "", ExportFormatCSV:
		payload, err := csvutil.Marshal(exportRows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode error report: %w", err)
		}
		return payload, "text/csv", nil
	case ExportFormatXLSX:
		payload, err := exportErrorsXLSX(exportRows)
		if err != nil {
			return nil, "", err
		}
		return payload, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// commitErrorExportRow is one line of the post-commit error report, rendered
// from the persisted ledger once the review session is gone.
type commitErrorExportRow struct {
	RowNumber int    `csv:"Row Number"`
	Error     string `csv:"Error"`
}

// ExportCommitErrors renders the persisted row failures of a committed batch.
func ExportCommitErrors(entries []domain.ImportError, format string) ([]byte, string, error) {
	exportRows := make([]commitErrorExportRow, len(entries))
	for i, entry := range entries {
		exportRows[i] = commitErrorExportRow{RowNumber: entry.RowNumber, Error: entry.Message}
	}

	switch format {
	case "", ExportFormatCSV:
		payload, err := csvutil.Marshal(exportRows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode error report: %w", err)
		}
		return payload, "text/csv", nil
	case ExportFormatXLSX:
		payload, err := exportCommitErrorsXLSX(exportRows)
		if err != nil {
			return nil, "", err
		}
		return payload, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

const errorSheetName = "Errors"

func exportCommitErrorsXLSX(rows []commitErrorExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", errorSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"Row Number", "Error"}
	if err := f.SetSheetRow(errorSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell: %w", err)
		}
		values := []any{row.RowNumber, row.Error}
		if err := f.SetSheetRow(errorSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row.RowNumber, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportErrorsXLSX(rows []errorExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", errorSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"Row Number", "Status", "Errors", "Warnings"}
	for _, column := range exportColumns {
		header = append(header, column.Header)
	}
	if err := f.SetSheetRow(errorSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell: %w", err)
		}
		values := []any{
			row.RowNumber, row.Status, row.Errors, row.Warnings,
			row.FirstName, row.LastName, row.Gender, row.DateOfBirth,
			row.Class, row.Section, row.Session, row.Category,
			row.BloodGroup, row.Nationality, row.Religion, row.AadhaarNumber,
			row.RollNumber, row.AdmissionNumber, row.Email, row.Mobile,
			row.PrimaryContact, row.FatherName, row.FatherMobile,
			row.FatherEmail, row.FatherOccupation, row.MotherName,
			row.MotherMobile, row.MotherOccupation, row.GuardianName,
			row.GuardianMobile, row.GuardianRelation, row.AddressLine1,
			row.City, row.State, row.Pincode, row.HasPreviousSchool,
			row.PreviousSchoolName, row.PreviousSchoolClass,
		}
		if err := f.SetSheetRow(errorSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row.RowNumber, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
