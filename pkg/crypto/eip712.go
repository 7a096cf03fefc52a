package crypto

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"sealister/pkg/seaport"
)

// Domain is the EIP-712 domain separator. It binds every signature to the
// protocol name/version, the chain and the verifying contract; an order
// signed under any other domain is rejected by Seaport's on-chain verifier,
// so these values must reproduce the deployment exactly.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// SeaportDomain returns the signing domain for the Seaport 1.6 deployment on
// the given chain.
func SeaportDomain(chainID int64) Domain {
	return Domain{
		Name:              "Seaport",
		Version:           "1.6",
		ChainID:           big.NewInt(chainID),
		VerifyingContract: common.HexToAddress(seaport.ProtocolAddress),
	}
}

// orderTypes is Seaport's typed-data schema for OrderComponents. The type
// strings are a protocol contract: any deviation produces a signature the
// verifier computes a different digest for.
var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"OrderComponents": {
		{Name: "offerer", Type: "address"},
		{Name: "zone", Type: "address"},
		{Name: "offer", Type: "OfferItem[]"},
		{Name: "consideration", Type: "ConsiderationItem[]"},
		{Name: "orderType", Type: "uint8"},
		{Name: "startTime", Type: "uint256"},
		{Name: "endTime", Type: "uint256"},
		{Name: "zoneHash", Type: "bytes32"},
		{Name: "salt", Type: "uint256"},
		{Name: "conduitKey", Type: "bytes32"},
		{Name: "counter", Type: "uint256"},
	},
	"OfferItem": {
		{Name: "itemType", Type: "uint8"},
		{Name: "token", Type: "address"},
		{Name: "identifierOrCriteria", Type: "uint256"},
		{Name: "startAmount", Type: "uint256"},
		{Name: "endAmount", Type: "uint256"},
	},
	"ConsiderationItem": {
		{Name: "itemType", Type: "uint8"},
		{Name: "token", Type: "address"},
		{Name: "identifierOrCriteria", Type: "uint256"},
		{Name: "startAmount", Type: "uint256"},
		{Name: "endAmount", Type: "uint256"},
		{Name: "recipient", Type: "address"},
	},
}

// OrderSigner produces EIP-712 signatures over Seaport order components.
type OrderSigner struct {
	domain Domain
}

func NewOrderSigner(domain Domain) *OrderSigner {
	return &OrderSigner{domain: domain}
}

// HashOrder computes the typed-data digest for an order:
// keccak256("\x19\x01" || domainSeparator || hashStruct(order)).
func (o *OrderSigner) HashOrder(order *seaport.OrderComponents) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "OrderComponents",
		Domain: apitypes.TypedDataDomain{
			Name:              o.domain.Name,
			Version:           o.domain.Version,
			ChainId:           (*math.HexOrDecimal256)(o.domain.ChainID),
			VerifyingContract: o.domain.VerifyingContract.Hex(),
		},
		Message: orderMessage(order),
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("hash domain: %w", err)
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("hash order: %w", err)
	}

	raw := make([]byte, 0, 2+32+32)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, structHash...)
	return crypto.Keccak256(raw), nil
}

// SignOrder signs the order digest and returns a 65-byte signature with V
// normalized to 27/28 as Seaport's ECDSA verification expects.
func (o *OrderSigner) SignOrder(signer *Signer, order *seaport.OrderComponents) ([]byte, error) {
	hash, err := o.HashOrder(order)
	if err != nil {
		return nil, err
	}
	signature, err := signer.Sign(hash)
	if err != nil {
		return nil, err
	}
	if signature[64] < 27 {
		signature[64] += 27
	}
	return signature, nil
}

// RecoverOfferer recovers the address that signed the order. Valid listings
// recover to order.Offerer.
func (o *OrderSigner) RecoverOfferer(order *seaport.OrderComponents, signature []byte) (common.Address, error) {
	hash, err := o.HashOrder(order)
	if err != nil {
		return common.Address{}, err
	}
	return RecoverAddress(hash, signature)
}

func orderMessage(order *seaport.OrderComponents) apitypes.TypedDataMessage {
	offer := make([]interface{}, len(order.Offer))
	for i, item := range order.Offer {
		offer[i] = map[string]interface{}{
			"itemType":             fmt.Sprintf("%d", item.ItemType),
			"token":                item.Token,
			"identifierOrCriteria": item.IdentifierOrCriteria,
			"startAmount":          item.StartAmount,
			"endAmount":            item.EndAmount,
		}
	}

	consideration := make([]interface{}, len(order.Consideration))
	for i, item := range order.Consideration {
		consideration[i] = map[string]interface{}{
			"itemType":             fmt.Sprintf("%d", item.ItemType),
			"token":                item.Token,
			"identifierOrCriteria": item.IdentifierOrCriteria,
			"startAmount":          item.StartAmount,
			"endAmount":            item.EndAmount,
			"recipient":            item.Recipient,
		}
	}

	return apitypes.TypedDataMessage{
		"offerer":       order.Offerer,
		"zone":          order.Zone,
		"offer":         offer,
		"consideration": consideration,
		"orderType":     fmt.Sprintf("%d", order.OrderType),
		"startTime":     order.StartTime,
		"endTime":       order.EndTime,
		"zoneHash":      order.ZoneHash,
		"salt":          order.Salt,
		"conduitKey":    order.ConduitKey,
		"counter":       order.Counter,
	}
}
