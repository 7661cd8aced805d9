package adtarget

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/bidforge/bidforge/adapters"
	"github.com/bidforge/bidforge/config"
	"github.com/bidforge/bidforge/openrtb_ext"
)

// Builder builds a new instance of the Adtarget adapter for the given bidder with the given config.
func Builder(bidderName openrtb_ext.BidderName, cfg config.Adapter, server config.Server) (adapters.Bidder, error) {
	return adapters.NewOrtbBidder(cfg.Endpoint, adapters.RequestPerImp, adapters.OrtbHooks[openrtb_ext.ExtImpAdtarget]{
		ValidateRequest: validateRequest,
		ValidateImpExt:  validateImpExt,
		ResolveBidType:  resolveBidType,
	})
}

func validateRequest(request *openrtb2.BidRequest) error {
	if request.App != nil {
		return errors.New("Adtarget doesn't support app requests")
	}
	return nil
}

func validateImpExt(impExt *openrtb_ext.ExtImpAdtarget, imp *openrtb2.Imp) error {
	if impExt.SourceId == 0 {
		return fmt.Errorf("ignoring imp id=%s, no aid present", imp.ID)
	}
	return nil
}

// resolveBidType honors the type the endpoint declares in bid.ext.prebid.type and
// falls back to resolution from the outgoing impressions.
func resolveBidType(bid *openrtb2.Bid, imps []openrtb2.Imp) (openrtb_ext.BidType, error) {
	if typeName, err := jsonparser.GetString(bid.Ext, "prebid", "type"); err == nil {
		return openrtb_ext.ParseBidType(typeName)
	}
	return adapters.BidTypeFromImps(bid.ImpID, imps), nil
}
