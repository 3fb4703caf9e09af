package ledger

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

const (
	requestTypeExport = "Export"
	exportFormatXML   = "$$SysName:XML"

	varCurrentCompany = "SVCURRENTCOMPANY"
	varExportFormat   = "SVEXPORTFORMAT"
)

// ExportRequest is a single export call against the ledger system
type ExportRequest struct {
	RequestType     string
	ReportName      string
	CompanyName     string
	StaticVariables map[string]string
}

// NewExportRequest validates its inputs and assembles the static variables
func NewExportRequest(kind ReportKind, companyName string, opts Options) (*ExportRequest, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
	}
	if strings.TrimSpace(companyName) == "" {
		return nil, ErrEmptyCompany
	}

	vars := map[string]string{
		varCurrentCompany: companyName,
		varExportFormat:   exportFormatXML,
	}
	for _, kv := range opts.staticVariables() {
		vars[kv[0]] = kv[1]
	}

	return &ExportRequest{
		RequestType:     requestTypeExport,
		ReportName:      kind.ReportName(),
		CompanyName:     companyName,
		StaticVariables: vars,
	}, nil
}

type envelope struct {
	XMLName xml.Name       `xml:"ENVELOPE"`
	Header  envelopeHeader `xml:"HEADER"`
	Body    envelopeBody   `xml:"BODY"`
}

type envelopeHeader struct {
	TallyRequest string `xml:"TALLYREQUEST"`
}

type envelopeBody struct {
	RequestDesc requestDesc `xml:"EXPORTDATA>REQUESTDESC"`
}

type requestDesc struct {
	ReportName      string      `xml:"REPORTNAME"`
	StaticVariables []staticVar `xml:"STATICVARIABLES>VAR"`
}

// staticVar marshals under its own element name
type staticVar struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Marshal serializes the request as a single XML document.
// Text content is escaped, so company names containing markup characters
// are embedded safely.
func (r *ExportRequest) Marshal() (string, error) {
	doc := envelope{
		Header: envelopeHeader{TallyRequest: r.RequestType + " Data"},
		Body: envelopeBody{
			RequestDesc: requestDesc{
				ReportName:      r.ReportName,
				StaticVariables: r.orderedVariables(),
			},
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export request: %w", err)
	}
	return string(out), nil
}

// orderedVariables puts the company first and the rest in name order
func (r *ExportRequest) orderedVariables() []staticVar {
	names := make([]string, 0, len(r.StaticVariables))
	for name := range r.StaticVariables {
		if name != varCurrentCompany {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	vars := make([]staticVar, 0, len(names)+1)
	vars = append(vars, staticVar{XMLName: xml.Name{Local: varCurrentCompany}, Value: r.CompanyName})
	for _, name := range names {
		vars = append(vars, staticVar{XMLName: xml.Name{Local: name}, Value: r.StaticVariables[name]})
	}
	return vars
}

// BuildExportRequest produces the request document for a report and company
func BuildExportRequest(kind ReportKind, companyName string, opts Options) (string, error) {
	req, err := NewExportRequest(kind, companyName, opts)
	if err != nil {
		return "", err
	}
	return req.Marshal()
}
