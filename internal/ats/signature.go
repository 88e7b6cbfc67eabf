// Package ats identifies the applicant tracking system hosting an application
// form and provides the selector lists used to locate its fields.
package ats

// Vendor identifies a known applicant tracking system.
type Vendor string

const (
	// VendorWorkday is the Workday ATS
	VendorWorkday Vendor = "workday"
	// VendorLever is the Lever ATS
	VendorLever Vendor = "lever"
	// VendorGreenhouse is the Greenhouse ATS
	VendorGreenhouse Vendor = "greenhouse"
	// VendorBambooHR is the BambooHR ATS
	VendorBambooHR Vendor = "bamboohr"
	// VendorGeneric is a page that looks like an application form on an unrecognized system
	VendorGeneric Vendor = "generic"
	// VendorLinkedIn is the LinkedIn Easy Apply modal. It is never detected, only selected.
	VendorLinkedIn Vendor = "linkedin"
	// VendorUnknown is a page that does not look like an application form
	VendorUnknown Vendor = "unknown"
)

// FieldKind is the semantic role of a form control.
type FieldKind string

const (
	FieldName         FieldKind = "name"
	FieldEmail        FieldKind = "email"
	FieldPhone        FieldKind = "phone"
	FieldResumeUpload FieldKind = "resume_upload"
	FieldSubmitButton FieldKind = "submit_button"
	// FieldAdditional is any control that is not one of the canonical kinds.
	FieldAdditional FieldKind = "additional"
)

// FieldKinds lists the canonical kinds in locate order.
var FieldKinds = []FieldKind{FieldName, FieldEmail, FieldPhone, FieldResumeUpload, FieldSubmitButton}

// Signature is the named bundle of selector lists for one vendor.
type Signature struct {
	Vendor      Vendor
	DisplayName string
	// Keyword is searched for in the page address and markup during detection.
	Keyword   string
	Selectors map[FieldKind][]string
}

// SelectorsFor returns a copy of the selector list for kind.
func (s Signature) SelectorsFor(kind FieldKind) []string {
	return append([]string(nil), s.Selectors[kind]...)
}

// detectionOrder is the fixed priority in which vendor keywords are matched.
// Changing it changes which vendor wins on pages that mention several.
var detectionOrder = []Vendor{VendorWorkday, VendorLever, VendorGreenhouse, VendorBambooHR}

func hostedSelectors() map[FieldKind][]string {
	return map[FieldKind][]string{
		FieldName:         {`input[name="name"]`, `input[name="full_name"]`},
		FieldEmail:        {`input[name="email"]`, `input[type="email"]`},
		FieldPhone:        {`input[name="phone"]`, `input[type="tel"]`},
		FieldResumeUpload: {`input[type="file"]`, `input[accept*=".pdf"]`},
		FieldSubmitButton: {`button[type="submit"]`, `input[type="submit"]`},
	}
}

var signatures = map[Vendor]Signature{
	VendorWorkday: {
		Vendor:      VendorWorkday,
		DisplayName: "Workday",
		Keyword:     "workday",
		Selectors: map[FieldKind][]string{
			FieldName:         {`input[name*="name"]`, `input[id*="name"]`},
			FieldEmail:        {`input[type="email"]`, `input[name*="email"]`},
			FieldPhone:        {`input[type="tel"]`, `input[name*="phone"]`},
			FieldResumeUpload: {`input[type="file"]`, `input[accept*=".pdf"]`},
			FieldSubmitButton: {`button[type="submit"]`, `input[type="submit"]`},
		},
	},
	VendorLever: {
		Vendor:      VendorLever,
		DisplayName: "Lever",
		Keyword:     "lever",
		Selectors:   hostedSelectors(),
	},
	VendorGreenhouse: {
		Vendor:      VendorGreenhouse,
		DisplayName: "Greenhouse",
		Keyword:     "greenhouse",
		Selectors:   hostedSelectors(),
	},
	VendorBambooHR: {
		Vendor:      VendorBambooHR,
		DisplayName: "BambooHR",
		Keyword:     "bamboo",
		Selectors:   hostedSelectors(),
	},
	VendorGeneric: {
		Vendor:      VendorGeneric,
		DisplayName: "Generic Form",
		Selectors: map[FieldKind][]string{
			FieldName:         {`input[name*="name"]`, `input[id*="name"]`, `input[placeholder*="name"]`},
			FieldEmail:        {`input[type="email"]`, `input[name*="email"]`, `input[placeholder*="email"]`},
			FieldPhone:        {`input[type="tel"]`, `input[name*="phone"]`, `input[placeholder*="phone"]`},
			FieldResumeUpload: {`input[type="file"]`, `input[accept*=".pdf"]`, `input[accept*=".doc"]`},
			FieldSubmitButton: {`button[type="submit"]`, `input[type="submit"]`, `button:contains("Submit")`},
		},
	},
	VendorLinkedIn: {
		Vendor:      VendorLinkedIn,
		DisplayName: "LinkedIn Easy Apply",
		Selectors: map[FieldKind][]string{
			FieldName:  {`input[name*="name"]`, `input[id*="name"]`},
			FieldEmail: {`input[type="email"]`, `input[name*="email"]`},
			FieldPhone: {`input[type="tel"]`, `input[name*="phone"]`, `input[id*="phoneNumber"]`},
			FieldResumeUpload: {
				`input[type="file"]`,
				`input[accept*=".pdf"]`,
				`input[accept*=".doc"]`,
				`input[accept*=".docx"]`,
				`[data-test-id="resume-upload-input"]`,
			},
			FieldSubmitButton: {
				`button[data-control-name="submit_unify"]`,
				`button[aria-label="Submit application"]`,
				`button[type="submit"]`,
				`.jobs-easy-apply-content button:last-child`,
			},
		},
	},
}

// Lookup returns the signature for vendor. Vendors without their own
// signature, including VendorUnknown, fall back to the generic signature.
func Lookup(vendor Vendor) Signature {
	if sig, ok := signatures[vendor]; ok {
		return sig
	}
	return signatures[VendorGeneric]
}

// Known reports whether vendor has a dedicated signature.
func Known(vendor Vendor) bool {
	_, ok := signatures[vendor]
	return ok
}
