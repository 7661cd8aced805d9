package config

import (
	"fmt"
	"text/template"

	validator "github.com/asaskevich/govalidator"

	"github.com/bidforge/bidforge/macros"
)

// Adapter holds the per-bidder construction config.
type Adapter struct {
	Endpoint         string `mapstructure:"endpoint"` // Required
	Disabled         bool   `mapstructure:"disabled"`
	ExtraAdapterInfo string `mapstructure:"extra_info"`
}

// Server holds the server config exposed to bidder builders.
type Server struct {
	ExternalUrl string `mapstructure:"external_url"`
	GvlID       int    `mapstructure:"gvlid"`
	DataCenter  string `mapstructure:"datacenter"`
}

func (server *Server) Empty() bool {
	return server == nil || (server.DataCenter == "" && server.ExternalUrl == "" && server.GvlID == 0)
}

const (
	dummyHost        string = "dummyhost.com"
	dummyPublisherID string = "12"
	dummyAccountID   string = "some_account"
	dummyZoneID      string = "zone"
)

// ValidateAdapterConfigs makes sure that every enabled adapter has a valid endpoint
// associated with it.
func ValidateAdapterConfigs(adapterMap map[string]Adapter, errs []error) []error {
	for adapterName, adapter := range adapterMap {
		if !adapter.Disabled {
			errs = validateAdapterEndpoint(adapter.Endpoint, adapterName, errs)
		}
	}
	return errs
}

// validateAdapterEndpoint makes sure that an adapter has a valid endpoint
// associated with it
func validateAdapterEndpoint(endpoint string, adapterName string, errs []error) []error {
	if endpoint == "" {
		return append(errs, fmt.Errorf("There's no default endpoint available for %s. Calls to this bidder/exchange will fail. "+
			"Please set adapters.%s.endpoint in your app config", adapterName, adapterName))
	}

	if err := ValidateAdapterEndpoint(endpoint); err != nil {
		return append(errs, fmt.Errorf("adapter: %s. %v", adapterName, err))
	}
	return errs
}

// ValidateAdapterEndpoint checks that an endpoint resolves to a well-formed
// absolute URL once its macros are substituted.
func ValidateAdapterEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint is missing")
	}

	// Create endpoint template
	endpointTemplate, err := template.New("endpointTemplate").Parse(endpoint)
	if err != nil {
		return fmt.Errorf("Invalid endpoint template: %s. %v", endpoint, err)
	}
	// Resolve macros (if any) in the endpoint URL
	resolvedEndpoint, err := macros.ResolveMacros(*endpointTemplate, macros.EndpointTemplateParams{
		Host:        dummyHost,
		PublisherID: dummyPublisherID,
		AccountID:   dummyAccountID,
		ZoneID:      dummyZoneID,
	})
	if err != nil {
		return fmt.Errorf("Unable to resolve endpoint: %s. %v", endpoint, err)
	}
	// Validate the resolved endpoint
	//
	// Validating using both IsURL and IsRequestURL because IsURL allows relative paths
	// whereas IsRequestURL requires absolute path but fails to check other valid URL
	// format constraints.
	//
	// For example: IsURL will allow "abcd.com" but IsRequestURL won't
	// IsRequestURL will allow "http://http://abcd.com" but IsURL won't
	if !validator.IsURL(resolvedEndpoint) || !validator.IsRequestURL(resolvedEndpoint) {
		return fmt.Errorf("The endpoint: %s is not a valid URL", resolvedEndpoint)
	}
	return nil
}
