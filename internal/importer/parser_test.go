package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// templateHeaders is the header row exactly as the download template writes it.
var templateHeaders = []string{
	"First Name*", "Last Name*", "Gender*", "Date of Birth* (YYYY-MM-DD)",
	"Class*", "Section*", "Academic Session*", "Category*",
	"Blood Group", "Nationality", "Religion", "Aadhaar Number",
	"Roll Number", "Admission Number", "Email", "Mobile Number",
	"Primary Contact*",
	"Father's Name", "Father's Mobile", "Father's Email", "Father's Occupation",
	"Mother's Name", "Mother's Mobile", "Mother's Occupation",
	"Guardian's Name", "Guardian's Mobile", "Guardian's Relation",
	"Address Line 1", "City", "State", "Pincode",
	"Previous School (Yes/No)", "Previous School Name", "Last Class Attended",
}

// headerToField mirrors the parser's mapping so fixture rows can be written
// by internal field name.
var headerToField = map[string]string{
	"First Name*":                 fieldFirstName,
	"Last Name*":                  fieldLastName,
	"Gender*":                     fieldGender,
	"Date of Birth* (YYYY-MM-DD)": fieldDOB,
	"Class*":                      fieldAdmissionClass,
	"Section*":                    fieldSection,
	"Academic Session*":           fieldSession,
	"Category*":                   fieldCategory,
	"Blood Group":                 fieldBloodGroup,
	"Nationality":                 fieldNationality,
	"Religion":                    fieldReligion,
	"Aadhaar Number":              fieldAadhaarNumber,
	"Roll Number":                 fieldRollNumber,
	"Admission Number":            fieldAdmissionNumber,
	"Email":                       fieldEmail,
	"Mobile Number":               fieldMobile,
	"Primary Contact*":            fieldPrimaryContact,
	"Father's Name":               fieldFatherName,
	"Father's Mobile":             fieldFatherMobile,
	"Father's Email":              fieldFatherEmail,
	"Father's Occupation":         fieldFatherOccupation,
	"Mother's Name":               fieldMotherName,
	"Mother's Mobile":             fieldMotherMobile,
	"Mother's Occupation":         fieldMotherOccupation,
	"Guardian's Name":             fieldGuardianName,
	"Guardian's Mobile":           fieldGuardianMobile,
	"Guardian's Relation":         fieldGuardianRelation,
	"Address Line 1":              fieldAddressLine1,
	"City":                        fieldCity,
	"State":                       fieldState,
	"Pincode":                     fieldPincode,
	"Previous School (Yes/No)":    fieldHasPreviousSchool,
	"Previous School Name":        fieldPreviousSchoolName,
	"Last Class Attended":         fieldPreviousSchoolClass,
}

// completeRow returns a fully valid row, overridable per test.
func completeRow(overrides map[string]string) map[string]string {
	row := map[string]string{
		fieldFirstName:       "Riya",
		fieldLastName:        "Sharma",
		fieldGender:          "Female",
		fieldDOB:             "2013-03-29",
		fieldAdmissionClass:  "7",
		fieldSection:         "B",
		fieldSession:         "2025-2026",
		fieldCategory:        "General",
		fieldNationality:     "Indian",
		fieldAdmissionNumber: "STU-2025-00001",
		fieldRollNumber:      "14",
		fieldPrimaryContact:  "father",
		fieldFatherName:      "Rajesh Sharma",
		fieldFatherMobile:    "9876543210",
		fieldMotherName:      "Sunita Sharma",
		fieldMotherMobile:    "9876543211",
		fieldAddressLine1:    "12 MG Road",
		fieldCity:            "Jaipur",
		fieldState:           "Rajasthan",
		fieldPincode:         "302001",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func buildCSV(t *testing.T, rows ...map[string]string) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(templateHeaders))
	for _, row := range rows {
		record := make([]string, len(templateHeaders))
		for i, header := range templateHeaders {
			record[i] = row[headerToField[header]]
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return &buf
}

func TestParseValidRow(t *testing.T) {
	t.Parallel()

	result, err := Parse("students.csv", buildCSV(t, completeRow(nil)))
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalRows)
	assert.Equal(t, 1, result.ValidRows)
	assert.Equal(t, 0, result.InvalidRows)
	assert.Equal(t, 0, result.WarningRows)

	row := result.Rows[0]
	assert.Equal(t, 2, row.RowNumber)
	assert.Equal(t, domain.RowStatusValid, row.Status)
	assert.Empty(t, row.Errors)
	assert.Empty(t, row.Warnings)
	assert.Equal(t, "Riya", row.Data[fieldFirstName])
	assert.Equal(t, "STU-2025-00001", row.Data[fieldAdmissionNumber])
}

func TestParseInvalidRowCollectsEveryError(t *testing.T) {
	t.Parallel()

	bad := completeRow(map[string]string{
		fieldLastName:       "",
		fieldDOB:            "29-03-2013",
		fieldAdmissionClass: "13",
	})
	result, err := Parse("students.csv", buildCSV(t, bad))
	require.NoError(t, err)

	require.Equal(t, 1, result.InvalidRows)
	row := result.Rows[0]
	assert.Equal(t, domain.RowStatusInvalid, row.Status)

	fields := make([]string, 0, len(row.Errors))
	for _, issue := range row.Errors {
		fields = append(fields, issue.Field)
	}
	assert.ElementsMatch(t, []string{fieldLastName, fieldDOB, fieldAdmissionClass}, fields)
}

func TestParseWarningRowStillImportable(t *testing.T) {
	t.Parallel()

	result, err := Parse("students.csv", buildCSV(t, completeRow(map[string]string{
		fieldAadhaarNumber: "12345678901",
	})))
	require.NoError(t, err)

	assert.Equal(t, 1, result.WarningRows)
	assert.Equal(t, 0, result.InvalidRows)
	row := result.Rows[0]
	assert.Equal(t, domain.RowStatusWarning, row.Status)
	assert.True(t, row.Importable())
	assert.Empty(t, row.Errors)
	require.Len(t, row.Warnings, 1)
	assert.Equal(t, fieldAadhaarNumber, row.Warnings[0].Field)
}

func TestParseDropsEmptyRowsKeepsRowNumbers(t *testing.T) {
	t.Parallel()

	first := completeRow(nil)
	blank := map[string]string{}
	third := completeRow(map[string]string{
		fieldFirstName:       "Arjun",
		fieldAdmissionNumber: "STU-2025-00002",
	})

	result, err := Parse("students.csv", buildCSV(t, first, blank, third))
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Rows[0].RowNumber)
	// The blank spreadsheet row is dropped but still occupies row 3.
	assert.Equal(t, 4, result.Rows[1].RowNumber)
	assert.Equal(t, "Arjun", result.Rows[1].Data[fieldFirstName])
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		completeRow(nil),
		completeRow(map[string]string{fieldDOB: "not-a-date"}),
	}

	first, err := Parse("students.csv", buildCSV(t, rows...))
	require.NoError(t, err)
	second, err := Parse("students.csv", buildCSV(t, rows...))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseCountsPartitionRows(t *testing.T) {
	t.Parallel()

	var rows []map[string]string
	for i := 0; i < 4; i++ {
		rows = append(rows, completeRow(map[string]string{
			fieldAdmissionNumber: fmt.Sprintf("STU-2025-%05d", i+1),
		}))
	}
	rows = append(rows,
		completeRow(map[string]string{fieldGender: ""}),
		completeRow(map[string]string{fieldPincode: "30200"}),
	)

	result, err := Parse("students.csv", buildCSV(t, rows...))
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, result.TotalRows, result.ValidRows+result.InvalidRows+result.WarningRows)
	assert.Equal(t, 4, result.ValidRows)
	assert.Equal(t, 1, result.InvalidRows)
	assert.Equal(t, 1, result.WarningRows)
}

func TestParseStripsByteOrderMark(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	_, err := io.Copy(&buf, buildCSV(t, completeRow(nil)))
	require.NoError(t, err)

	result, err := Parse("students.csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ValidRows)
}

func TestParseRejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Parse("students.pdf", strings.NewReader("whatever"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseRejectsUnknownHeader(t *testing.T) {
	t.Parallel()

	_, err := Parse("students.csv", strings.NewReader("Nombre,Apellido\nRiya,Sharma\n"))
	require.ErrorIs(t, err, ErrNoMappedColumns)
}

func TestParseRejectsHeaderOnlyFile(t *testing.T) {
	t.Parallel()

	_, err := Parse("students.csv", buildCSV(t))
	require.ErrorIs(t, err, ErrNoDataRows)
}
