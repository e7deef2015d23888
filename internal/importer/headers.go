package importer

// Internal field names for the student import template. The spreadsheet is a
// closed shape: only headers present in headerFields are mapped, everything
// else is ignored.
const (
	fieldFirstName       = "firstName"
	fieldLastName        = "lastName"
	fieldGender          = "gender"
	fieldDOB             = "dob"
	fieldAdmissionClass  = "admissionClass"
	fieldSection         = "section"
	fieldSession         = "session"
	fieldCategory        = "category"
	fieldBloodGroup      = "bloodGroup"
	fieldNationality     = "nationality"
	fieldReligion        = "religion"
	fieldAadhaarNumber   = "aadhaarNumber"
	fieldRollNumber      = "rollNumber"
	fieldAdmissionNumber = "admissionNumber"
	fieldEmail           = "email"
	fieldMobile          = "mobile"
	fieldPrimaryContact  = "primaryContact"

	fieldFatherName       = "fatherName"
	fieldFatherMobile     = "fatherMobile"
	fieldFatherEmail      = "fatherEmail"
	fieldFatherOccupation = "fatherOccupation"

	fieldMotherName       = "motherName"
	fieldMotherMobile     = "motherMobile"
	fieldMotherOccupation = "motherOccupation"

	fieldGuardianName     = "guardianName"
	fieldGuardianMobile   = "guardianMobile"
	fieldGuardianRelation = "guardianRelation"

	fieldAddressLine1 = "addressLine1"
	fieldCity         = "city"
	fieldState        = "state"
	fieldPincode      = "pincode"

	fieldHasPreviousSchool   = "hasPreviousSchool"
	fieldPreviousSchoolName  = "previousSchoolName"
	fieldPreviousSchoolClass = "previousSchoolClass"
)

// headerDOB is the date-of-birth column header as written by the template
// generator; spreadsheet tools may or may not preserve the embedded newline,
// so both forms map to the same field.
const (
	headerDOB     = "Date of Birth*\n(YYYY-MM-DD)"
	headerDOBFlat = "Date of Birth* (YYYY-MM-DD)"
)

// headerFields maps declared header text to internal field names. The match
// is exact: case and whitespace sensitive.
var headerFields = map[string]string{
	"First Name*":       fieldFirstName,
	"Last Name*":        fieldLastName,
	"Gender*":           fieldGender,
	headerDOB:           fieldDOB,
	headerDOBFlat:       fieldDOB,
	"Class*":            fieldAdmissionClass,
	"Section*":          fieldSection,
	"Academic Session*": fieldSession,
	"Category*":         fieldCategory,
	"Blood Group":       fieldBloodGroup,
	"Nationality":       fieldNationality,
	"Religion":          fieldReligion,
	"Aadhaar Number":    fieldAadhaarNumber,
	"Roll Number":       fieldRollNumber,
	"Admission Number":  fieldAdmissionNumber,
	"Email":             fieldEmail,
	"Mobile Number":     fieldMobile,
	"Primary Contact*":  fieldPrimaryContact,

	"Father's Name":       fieldFatherName,
	"Father's Mobile":     fieldFatherMobile,
	"Father's Email":      fieldFatherEmail,
	"Father's Occupation": fieldFatherOccupation,

	"Mother's Name":       fieldMotherName,
	"Mother's Mobile":     fieldMotherMobile,
	"Mother's Occupation": fieldMotherOccupation,

	"Guardian's Name":     fieldGuardianName,
	"Guardian's Mobile":   fieldGuardianMobile,
	"Guardian's Relation": fieldGuardianRelation,

	"Address Line 1": fieldAddressLine1,
	"City":           fieldCity,
	"State":          fieldState,
	"Pincode":        fieldPincode,

	"Previous School (Yes/No)": fieldHasPreviousSchool,
	"Previous School Name":     fieldPreviousSchoolName,
	"Last Class Attended":      fieldPreviousSchoolClass,
}

// requiredFields must be non-empty on every row. Each missing field yields
// its own error.
var requiredFields = []string{
	fieldFirstName,
	fieldLastName,
	fieldGender,
	fieldDOB,
	fieldAdmissionClass,
	fieldSection,
	fieldSession,
	fieldCategory,
	fieldPrimaryContact,
}

// exportColumns fixes the column order of the error export: the bookkeeping
// columns first, then every original template column.
var exportColumns = []struct {
	Header string
	Field  string
}{
	{"First Name*", fieldFirstName},
	{"Last Name*", fieldLastName},
	{"Gender*", fieldGender},
	{headerDOBFlat, fieldDOB},
	{"Class*", fieldAdmissionClass},
	{"Section*", fieldSection},
	{"Academic Session*", fieldSession},
	{"Category*", fieldCategory},
	{"Blood Group", fieldBloodGroup},
	{"Nationality", fieldNationality},
	{"Religion", fieldReligion},
	{"Aadhaar Number", fieldAadhaarNumber},
	{"Roll Number", fieldRollNumber},
	{"Admission Number", fieldAdmissionNumber},
	{"Email", fieldEmail},
	{"Mobile Number", fieldMobile},
	{"Primary Contact*", fieldPrimaryContact},
	{"Father's Name", fieldFatherName},
	{"Father's Mobile", fieldFatherMobile},
	{"Father's Email", fieldFatherEmail},
	{"Father's Occupation", fieldFatherOccupation},
	{"Mother's Name", fieldMotherName},
	{"Mother's Mobile", fieldMotherMobile},
	{"Mother's Occupation", fieldMotherOccupation},
	{"Guardian's Name", fieldGuardianName},
	{"Guardian's Mobile", fieldGuardianMobile},
	{"Guardian's Relation", fieldGuardianRelation},
	{"Address Line 1", fieldAddressLine1},
	{"City", fieldCity},
	{"State", fieldState},
	{"Pincode", fieldPincode},
	{"Previous School (Yes/No)", fieldHasPreviousSchool},
	{"Previous School Name", fieldPreviousSchoolName},
	{"Last Class Attended", fieldPreviousSchoolClass},
}
