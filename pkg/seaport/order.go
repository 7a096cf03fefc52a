package seaport

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Seaport 1.6 deployment constants. The conduit key selects OpenSea's default
// conduit as the transfer proxy authorized to move the offered token.
const (
	ProtocolAddress = "0x0000000000000068F116a894984e2DB1123eB395"
	ConduitKey      = "0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000"
	ZeroHash        = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// ItemType identifies what an offer or consideration leg transfers.
type ItemType uint8

const (
	ItemNative  ItemType = 0
	ItemERC20   ItemType = 1
	ItemERC721  ItemType = 2
	ItemERC1155 ItemType = 3
)

// OrderKind is Seaport's order type enum. FullOpen orders have no restricted
// fulfiller and no partial fills.
type OrderKind uint8

const (
	FullOpen       OrderKind = 0
	PartialOpen    OrderKind = 1
	FullRestricted OrderKind = 2
)

// OfferItem is one leg of what the offerer gives up.
type OfferItem struct {
	ItemType             ItemType `json:"itemType"`
	Token                string   `json:"token"`
	IdentifierOrCriteria string   `json:"identifierOrCriteria"`
	StartAmount          string   `json:"startAmount"`
	EndAmount            string   `json:"endAmount"`
}

// ConsiderationItem is one leg of what the offerer demands in return.
type ConsiderationItem struct {
	ItemType             ItemType `json:"itemType"`
	Token                string   `json:"token"`
	IdentifierOrCriteria string   `json:"identifierOrCriteria"`
	StartAmount          string   `json:"startAmount"`
	EndAmount            string   `json:"endAmount"`
	Recipient            string   `json:"recipient"`
}

// OrderComponents is the protocol-defined order structure. Field names and
// JSON encoding follow the marketplace API; uint256 values travel as decimal
// strings, bytes32 values as 0x-prefixed hex.
type OrderComponents struct {
	Offerer                         string              `json:"offerer"`
	Zone                            string              `json:"zone"`
	Offer                           []OfferItem         `json:"offer"`
	Consideration                   []ConsiderationItem `json:"consideration"`
	OrderType                       OrderKind           `json:"orderType"`
	StartTime                       string              `json:"startTime"`
	EndTime                         string              `json:"endTime"`
	ZoneHash                        string              `json:"zoneHash"`
	Salt                            string              `json:"salt"`
	ConduitKey                      string              `json:"conduitKey"`
	TotalOriginalConsiderationItems int                 `json:"totalOriginalConsiderationItems"`
	Counter                         string              `json:"counter"`
}

// BuildListing derives the order components for selling one ERC-721 token at
// a fixed native-currency price. Pure data derivation: no network or signing
// side effects. Each call draws a fresh random salt.
func BuildListing(token common.Address, tokenID string, offerer common.Address, priceWei *big.Int, now time.Time, durationMinutes int, counter *big.Int) (*OrderComponents, error) {
	if priceWei == nil || priceWei.Sign() <= 0 {
		return nil, fmt.Errorf("price must be > 0 wei")
	}
	if durationMinutes < 1 {
		return nil, fmt.Errorf("listing duration must be >= 1 minute, got %d", durationMinutes)
	}
	if _, ok := new(big.Int).SetString(tokenID, 10); !ok {
		return nil, fmt.Errorf("token id %q is not a decimal integer", tokenID)
	}
	if counter == nil {
		counter = big.NewInt(0)
	}

	salt, err := randomSalt()
	if err != nil {
		return nil, err
	}

	startTime := now.Unix()
	endTime := startTime + int64(durationMinutes)*60

	return &OrderComponents{
		Offerer: offerer.Hex(),
		Zone:    common.Address{}.Hex(),
		Offer: []OfferItem{{
			ItemType:             ItemERC721,
			Token:                token.Hex(),
			IdentifierOrCriteria: tokenID,
			StartAmount:          "1",
			EndAmount:            "1",
		}},
		Consideration: []ConsiderationItem{{
			ItemType:             ItemNative,
			Token:                common.Address{}.Hex(),
			IdentifierOrCriteria: "0",
			StartAmount:          priceWei.String(),
			EndAmount:            priceWei.String(),
			Recipient:            offerer.Hex(),
		}},
		OrderType:                       FullOpen,
		StartTime:                       strconv.FormatInt(startTime, 10),
		EndTime:                         strconv.FormatInt(endTime, 10),
		ZoneHash:                        ZeroHash,
		Salt:                            salt,
		ConduitKey:                      ConduitKey,
		TotalOriginalConsiderationItems: 1,
		Counter:                         counter.String(),
	}, nil
}

// randomSalt draws 32 bytes from crypto/rand. The salt distinguishes
// otherwise identical orders: two orders from the same offerer, zone and
// counter must never hash to the same order identifier.
func randomSalt() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return new(big.Int).SetBytes(buf).String(), nil
}
