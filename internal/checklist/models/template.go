package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultDocuments is the process-wide list every new checklist starts from.
var defaultDocuments = [...]string{
	"PAN Card of the Firm/Company",
	"Udyam Aadhar / Gumasta",
	"KYC of Partners",
	"KYC of Authorized Signatory",
	"Board Resolution",
	"Commencement Certificate",
	"Approved Plan Layout",
	"RERA Carpet Area Statement",
	"Sale Deed",
	"Power of Attorney",
	"Mortgage Deed",
	"Tally Data",
	"Form 3 – CA Certificate",
	"Bifurcation of Units",
	"Bank Account Details",
	"Title Report",
	"Form 1 – Architect Certificate",
	"Letterhead",
	"Partnership Deed",
	"GST Certificate",
	"Land Ownership Documents",
	"Agreement for Sale and Deviation Reports",
	"Allotment Letter and Deviation Reports",
	"Project Name",
	"Completion Date",
	"Architect Details",
	"RCC Consultant Details",
	"CA Details",
	"Contact Person Details for MahaRERA Profile",
	"Loan and Litigation Information",
	"Phase-wise Project Details",
	"Google Map Location of the Project",
	"Address Proof of the Organization",
	"NOC if Address Proof is not in the firm's name",
	"CC Verification Email Screenshot",
	"Amenities Details",
}

// DefaultDocumentCount is the size of the built-in template.
const DefaultDocumentCount = len(defaultDocuments)

// Template is an immutable ordered list of document names.
type Template struct {
	names []string
}

// DefaultTemplate returns the built-in document list.
func DefaultTemplate() Template {
	return Template{names: defaultDocuments[:]}
}

// NewTemplate validates names: at least one, none blank, no duplicates.
func NewTemplate(names []string) (Template, error) {
	if len(names) == 0 {
		return Template{}, fmt.Errorf("checklist template has no documents")
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return Template{}, fmt.Errorf("checklist template entry %d is blank", i)
		}
		if _, dup := seen[name]; dup {
			return Template{}, fmt.Errorf("checklist template lists %q twice", name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return Template{names: out}, nil
}

type templateFile struct {
	Documents []string `yaml:"documents"`
}

// LoadTemplate reads a YAML file of the form
//
//	documents:
//	  - PAN Card of the Firm/Company
//	  - ...
//
// An empty path yields the default template.
func LoadTemplate(path string) (Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read checklist template: %w", err)
	}
	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Template{}, fmt.Errorf("parse checklist template: %w", err)
	}
	return NewTemplate(file.Documents)
}

// Names returns a copy of the document names in order.
func (t Template) Names() []string {
	return append([]string(nil), t.names...)
}

// Len is the number of documents.
func (t Template) Len() int {
	return len(t.names)
}
