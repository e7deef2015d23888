package importer

import (
	"fmt"
	"slices"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// requiredLabels gives the user-facing name used in error messages.
var requiredLabels = map[string]string{
	fieldFirstName:      "First Name",
	fieldLastName:       "Last Name",
	fieldGender:         "Gender",
	fieldDOB:            "Date of Birth",
	fieldAdmissionClass: "Class",
	fieldSection:        "Section",
	fieldSession:        "Academic Session",
	fieldCategory:       "Category",
	fieldPrimaryContact: "Primary Contact",
}

func addError(row *domain.ParsedRow, field, message string) {
	row.Errors = append(row.Errors, domain.ValidationIssue{
		Field:    field,
		Message:  message,
		Severity: domain.SeverityError,
	})
}

func addWarning(row *domain.ParsedRow, field, message string) {
	row.Warnings = append(row.Warnings, domain.ValidationIssue{
		Field:    field,
		Message:  message,
		Severity: domain.SeverityWarning,
	})
}

// validateRow applies the full rule set to one row: required fields, closed
// vocabularies, conditional rules and format checks. All failures are
// reported, not just the first.
func validateRow(row *domain.ParsedRow) {
	data := row.Data

	for _, field := range requiredFields {
		if data[field] == "" {
			addError(row, field, requiredLabels[field]+" is required")
		}
	}

	// Gating enums: an unknown value here breaks downstream logic.
	checkEnum(row, fieldGender, domain.Genders, false)
	checkEnum(row, fieldAdmissionClass, domain.Classes, false)
	checkEnum(row, fieldSection, domain.Sections, false)
	checkEnum(row, fieldCategory, domain.Categories, false)
	checkEnum(row, fieldPrimaryContact, domain.ContactRoles, false)

	// Advisory enums: the row can still import, flag for manual review.
	checkEnum(row, fieldBloodGroup, domain.BloodGroups, true)
	checkEnum(row, fieldState, domain.States, true)

	// Previous schooling details become required once the flag says Yes.
	if data[fieldHasPreviousSchool] == "Yes" {
		if data[fieldPreviousSchoolName] == "" {
			addError(row, fieldPreviousSchoolName, "Previous School Name is required when Previous School is Yes")
		}
		if data[fieldPreviousSchoolClass] == "" {
			addError(row, fieldPreviousSchoolClass, "Last Class Attended is required when Previous School is Yes")
		}
	}

	// A declared primary contact should come with that person's details; a
	// mismatch is importable but worth flagging.
	if role := data[fieldPrimaryContact]; slices.Contains(domain.ContactRoles, role) {
		nameField, mobileField := contactFields(domain.ContactRole(role))
		if data[nameField] == "" || data[mobileField] == "" {
			addWarning(row, fieldPrimaryContact,
				fmt.Sprintf("primary contact is %s but %s name or mobile is missing", role, role))
		}
	}

	// Format checks. Dates, sessions and emails break downstream consumers,
	// so they are errors; phone/Aadhaar/pincode values may be legitimately
	// malformed and only warn.
	if v := data[fieldDOB]; v != "" && !isValidDate(v) {
		addError(row, fieldDOB, "Date of Birth must be a valid date in YYYY-MM-DD format")
	}
	if v := data[fieldSession]; v != "" && !isValidSession(v) {
		addError(row, fieldSession, "Academic Session must be in YYYY-YYYY format")
	}
	if v := data[fieldEmail]; v != "" && !isValidEmail(v) {
		addError(row, fieldEmail, "Email is not a valid address")
	}
	if v := data[fieldFatherEmail]; v != "" && !isValidEmail(v) {
		addError(row, fieldFatherEmail, "Father's Email is not a valid address")
	}

	for _, field := range []string{fieldMobile, fieldFatherMobile, fieldMotherMobile, fieldGuardianMobile} {
		if v := data[field]; v != "" && !isValidPhone(v) {
			addWarning(row, field, "mobile number should have 10-15 digits")
		}
	}
	if v := data[fieldAadhaarNumber]; v != "" && !isValidAadhaar(v) {
		addWarning(row, fieldAadhaarNumber, "Aadhaar number should have exactly 12 digits")
	}
	if v := data[fieldPincode]; v != "" && !isValidPincode(v) {
		addWarning(row, fieldPincode, "Pincode should have exactly 6 digits")
	}
}

func checkEnum(row *domain.ParsedRow, field string, allowed []string, advisory bool) {
	value := row.Data[field]
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	if advisory {
		addWarning(row, field, fmt.Sprintf("unrecognized value %q, verify manually", value))
		return
	}
	addError(row, field, fmt.Sprintf("invalid value %q", value))
}

func contactFields(role domain.ContactRole) (nameField, mobileField string) {
	switch role {
	case domain.ContactFather:
		return fieldFatherName, fieldFatherMobile
	case domain.ContactMother:
		return fieldMotherName, fieldMotherMobile
	default:
		return fieldGuardianName, fieldGuardianMobile
	}
}
