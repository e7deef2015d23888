package domain

import "time"

// ContactRole identifies which guardian block is the primary contact.
type ContactRole string

const (
	ContactFather   ContactRole = "father"
	ContactMother   ContactRole = "mother"
	ContactGuardian ContactRole = "guardian"
)

// Closed vocabularies checked during row validation. Gender, class, section,
// category and contact role gate downstream logic, so unknown values are
// errors; blood group and state are advisory and only warn.
var (
	Genders      = []string{"Male", "Female", "Other"}
	Classes      = []string{"Nursery", "LKG", "UKG", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	Sections     = []string{"A", "B", "C", "D"}
	Categories   = []string{"General", "OBC", "SC", "ST", "EWS"}
	BloodGroups  = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	ContactRoles = []string{string(ContactFather), string(ContactMother), string(ContactGuardian)}

	States = []string{
		"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
		"Delhi", "Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jammu and Kashmir",
		"Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra",
		"Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
		"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
		"Uttar Pradesh", "Uttarakhand", "West Bengal",
	}
)

// DefaultNationality is assumed when the spreadsheet leaves the column blank.
const DefaultNationality = "Indian"

// DocumentType categorizes an uploaded student document.
type DocumentType string

const (
	DocPhoto               DocumentType = "photo"
	DocBirthCertificate    DocumentType = "birth_certificate"
	DocAadhaarCard         DocumentType = "aadhaar_card"
	DocTransferCertificate DocumentType = "transfer_certificate"
	DocMarksheet           DocumentType = "marksheet"
	DocCasteCertificate    DocumentType = "caste_certificate"
	DocMedicalCertificate  DocumentType = "medical_certificate"
)

// DocumentRef points at an uploaded document in the configured storage
// backend.
type DocumentRef struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Contact is one parent or guardian block on a student record.
type Contact struct {
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Relation   string `json:"relation,omitempty"`
}

// Address is the student's residential address.
type Address struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// PreviousSchool captures prior schooling details when declared.
type PreviousSchool struct {
	Name      string `json:"name"`
	LastClass string `json:"lastClass"`
}

// StudentRecord is the normalized shape handed to the create-student
// collaborator. Every field has a defined fallback during normalization;
// guardian blocks that were never filled in stay nil rather than null-filled.
type StudentRecord struct {
	AdmissionNumber string      `json:"admissionNumber"`
	RollNumber      string      `json:"rollNumber,omitempty"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Gender          string      `json:"gender"`
	DateOfBirth     string      `json:"dateOfBirth"`
	Class           string      `json:"class"`
	Section         string      `json:"section"`
	Session         string      `json:"session"`
	Category        string      `json:"category"`
	BloodGroup      string      `json:"bloodGroup,omitempty"`
	Nationality     string      `json:"nationality"`
	Religion        string      `json:"religion,omitempty"`
	AadhaarNumber   string      `json:"aadhaarNumber,omitempty"`
	Email           string      `json:"email,omitempty"`
	Mobile          string      `json:"mobile,omitempty"`
	PrimaryContact  ContactRole `json:"primaryContact"`

	Father   *Contact `json:"father,omitempty"`
	Mother   *Contact `json:"mother,omitempty"`
	Guardian *Contact `json:"guardian,omitempty"`

	Address        *Address        `json:"address,omitempty"`
	PreviousSchool *PreviousSchool `json:"previousSchool,omitempty"`

	Documents map[DocumentType]DocumentRef `json:"documents,omitempty"`
}
