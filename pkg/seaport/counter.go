package seaport

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var getCounterSelector = crypto.Keccak256([]byte("getCounter(address)"))[:4]

// Counter reads the offerer's current cancellation counter from the Seaport
// contract via eth_call. Orders signed under a stale counter are invalid, so
// every run pulls the live value instead of assuming zero.
func Counter(ctx context.Context, rpcURL string, offerer common.Address) (*big.Int, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	seaport := common.HexToAddress(ProtocolAddress)
	data := make([]byte, 0, 4+32)
	data = append(data, getCounterSelector...)
	data = append(data, common.LeftPadBytes(offerer.Bytes(), 32)...)

	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &seaport, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("getCounter(%s): %w", offerer.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("getCounter(%s): empty result", offerer.Hex())
	}
	return new(big.Int).SetBytes(out), nil
}
