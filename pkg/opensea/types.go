package opensea

import "sealister/pkg/seaport"

// NFT is one token from the account holdings endpoint. Only the fields the
// lister consumes are decoded; the API returns more.
type NFT struct {
	Contract   string `json:"contract"`
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
}

type nftsResponse struct {
	NFTs []NFT `json:"nfts"`
}

// ListingParameters is the signed order as submitted: the order components
// plus the offerer's EIP-712 signature.
type ListingParameters struct {
	seaport.OrderComponents
	Signature string `json:"signature"`
}

type listingRequest struct {
	Parameters      ListingParameters `json:"parameters"`
	ProtocolAddress string            `json:"protocol_address"`
}

// apiError covers both error shapes the API returns.
type apiError struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
