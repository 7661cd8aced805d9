package adtelligent

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/bidforge/bidforge/adapters"
	"github.com/bidforge/bidforge/config"
	"github.com/bidforge/bidforge/openrtb_ext"
	"github.com/bidforge/bidforge/util/jsonutil"
)

// Builder builds a new instance of the Adtelligent adapter for the given bidder with the given config.
func Builder(bidderName openrtb_ext.BidderName, cfg config.Adapter, server config.Server) (adapters.Bidder, error) {
	return adapters.NewOrtbBidder(cfg.Endpoint, adapters.SingleRequest, adapters.OrtbHooks[openrtb_ext.ExtImpAdtelligent]{
		ValidateImp:    validateImp,
		ValidateImpExt: validateImpExt,
		ModifyImp:      modifyImp,
		ModifyRequest:  modifyRequest,
	})
}

func validateImp(imp *openrtb2.Imp) error {
	if imp.Banner == nil && imp.Video == nil {
		return fmt.Errorf("ignoring imp id=%s, Adtelligent supports only Banner and Video", imp.ID)
	}
	return nil
}

func validateImpExt(impExt *openrtb_ext.ExtImpAdtelligent, imp *openrtb2.Imp) error {
	if impExt.SourceId == 0 {
		return fmt.Errorf("ignoring imp id=%s, no aid present", imp.ID)
	}
	return nil
}

func modifyImp(imp openrtb2.Imp, impExt *openrtb_ext.ExtImpAdtelligent) (openrtb2.Imp, error) {
	if impExt.BidFloor > 0 {
		imp.BidFloor = impExt.BidFloor
	}
	if impExt.PlacementId > 0 {
		imp.TagID = strconv.Itoa(impExt.PlacementId)
	}

	// The endpoint expects the params keyed by bidder name next to whatever else
	// the publisher put on imp.ext. DropElement splices in place, so it gets a
	// copy; the incoming ext must stay untouched.
	ext, err := jsonutil.DropElement(append(json.RawMessage(nil), imp.Ext...), "bidder")
	if err != nil {
		return imp, err
	}

	var extMap map[string]json.RawMessage
	if err := jsonutil.Unmarshal(ext, &extMap); err != nil {
		return imp, err
	}
	if extMap == nil {
		extMap = make(map[string]json.RawMessage, 1)
	}
	if extMap["adtelligent"], err = jsonutil.Marshal(impExt); err != nil {
		return imp, err
	}
	if imp.Ext, err = jsonutil.Marshal(extMap); err != nil {
		return imp, err
	}
	return imp, nil
}

func modifyRequest(request *openrtb2.BidRequest, outgoing *openrtb2.BidRequest, impExts []*openrtb_ext.ExtImpAdtelligent) {
	if outgoing.Site == nil {
		return
	}

	for _, impExt := range impExts {
		if impExt.SiteId > 0 {
			siteCopy := *outgoing.Site
			siteCopy.ID = strconv.Itoa(impExt.SiteId)
			outgoing.Site = &siteCopy
			return
		}
	}
}
