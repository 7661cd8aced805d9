package macros

import (
	"bytes"
	"text/template"
)

// EndpointTemplateParams specifies macros for bidder endpoints.
type EndpointTemplateParams struct {
	Host        string
	PublisherID string
	ZoneID      string
	SourceId    string
	AccountID   string
	AdUnit      string
}

// ResolveMacros resolves macros in the given template with the provided params.
func ResolveMacros(aTemplate template.Template, templateParams interface{}) (string, error) {
	strBuf := bytes.Buffer{}

	err := aTemplate.Execute(&strBuf, templateParams)
	if err != nil {
		return "", err
	}

	res := strBuf.String()
	return res, nil
}
