package lister

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"sealister/params"
	sigcrypto "sealister/pkg/crypto"
	"sealister/pkg/opensea"
	"sealister/pkg/seaport"
	"sealister/pkg/util"
)

// Result is the outcome of one listing attempt. Every attempt produces
// exactly one Result; nothing is retried.
type Result struct {
	Wallet  string
	TokenID string
	OK      bool
	Detail  string
}

// Summary aggregates a whole run. Individual listing failures do not make
// the run itself a failure.
type Summary struct {
	Wallets        int
	SkippedWallets int
	Listed         int
	Failed         int
}

// Runner walks the configured wallets in order and lists every token from
// the target collection each wallet holds. Execution is fully sequential:
// one wallet at a time, one token at a time, with a fixed pause between
// submissions so the marketplace rate limit is never burst.
type Runner struct {
	cfg         *params.Config
	client      *opensea.Client
	log         *zap.SugaredLogger
	priceWei    *big.Int
	collection  common.Address
	orderSigner *sigcrypto.OrderSigner
	clock       util.Clock
	counterFn   func(ctx context.Context, rpcURL string, offerer common.Address) (*big.Int, error)
}

func New(cfg *params.Config, client *opensea.Client, priceWei *big.Int, log *zap.SugaredLogger) *Runner {
	return &Runner{
		cfg:         cfg,
		client:      client,
		log:         log,
		priceWei:    priceWei,
		collection:  common.HexToAddress(cfg.Collection),
		orderSigner: sigcrypto.NewOrderSigner(sigcrypto.SeaportDomain(cfg.ChainID)),
		clock:       util.RealClock{},
		counterFn:   seaport.Counter,
	}
}

// Run processes every wallet and returns the aggregated summary. A failure
// inside one wallet or one token never escalates past that unit of work.
func (r *Runner) Run(ctx context.Context) Summary {
	var summary Summary

	for _, cred := range r.cfg.Credentials() {
		summary.Wallets++
		r.log.Infow("wallet_start", "wallet", cred.Address)

		results, err := r.processWallet(ctx, cred)
		for _, res := range results {
			if res.OK {
				summary.Listed++
			} else {
				summary.Failed++
			}
		}
		if err != nil {
			summary.SkippedWallets++
			r.log.Warnw("wallet_skipped", "wallet", cred.Address, "reason", err.Error())
		}
	}

	r.log.Infow("run_complete",
		"wallets", summary.Wallets,
		"skipped_wallets", summary.SkippedWallets,
		"listed", summary.Listed,
		"failed", summary.Failed,
	)
	return summary
}

// processWallet queries one wallet's holdings and lists each matching token.
// Any error returned here aborts only this wallet.
func (r *Runner) processWallet(ctx context.Context, cred params.WalletCredential) ([]Result, error) {
	signer, err := sigcrypto.FromPrivateKeyHex(cred.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}
	if signer.Address() != common.HexToAddress(cred.Address) {
		r.log.Warnw("wallet_key_mismatch",
			"wallet", cred.Address, "derived", signer.Address().Hex())
	}

	counter, err := r.counterFn(ctx, r.cfg.RPCURL, signer.Address())
	if err != nil {
		return nil, fmt.Errorf("counter lookup: %w", err)
	}

	nfts, err := r.client.AccountNFTs(ctx, r.cfg.Chain, cred.Address)
	if err != nil {
		return nil, err
	}

	matching := filterCollection(nfts, r.collection)
	if len(matching) == 0 {
		r.log.Infow("no_nfts_found", "wallet", cred.Address, "collection", r.collection.Hex())
		return nil, nil
	}
	r.log.Infow("nfts_found", "wallet", cred.Address, "count", len(matching))

	results := make([]Result, 0, len(matching))
	for i, nft := range matching {
		res := r.listOne(ctx, signer, counter, cred.Address, nft)
		if res.OK {
			r.log.Infow("listing_success", "wallet", res.Wallet, "token_id", res.TokenID, "detail", res.Detail)
		} else {
			r.log.Warnw("listing_failed", "wallet", res.Wallet, "token_id", res.TokenID, "reason", res.Detail)
		}
		results = append(results, res)

		if i < len(matching)-1 {
			if err := util.Sleep(ctx, r.clock, r.cfg.Delay); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// listOne builds, signs and submits a single order. All failures are folded
// into the Result; the loop above decides nothing beyond logging it.
func (r *Runner) listOne(ctx context.Context, signer *sigcrypto.Signer, counter *big.Int, wallet string, nft opensea.NFT) Result {
	res := Result{Wallet: wallet, TokenID: nft.Identifier}

	order, err := seaport.BuildListing(
		r.collection, nft.Identifier, signer.Address(),
		r.priceWei, r.clock.Now(), r.cfg.DurationMinutes, counter,
	)
	if err != nil {
		res.Detail = fmt.Sprintf("build order: %v", err)
		return res
	}

	sig, err := r.orderSigner.SignOrder(signer, order)
	if err != nil {
		res.Detail = fmt.Sprintf("sign order: %v", err)
		return res
	}

	listing := opensea.ListingParameters{
		OrderComponents: *order,
		Signature:       "0x" + common.Bytes2Hex(sig),
	}
	if err := r.client.CreateListing(ctx, r.cfg.Chain, listing); err != nil {
		res.Detail = err.Error()
		return res
	}

	res.OK = true
	res.Detail = fmt.Sprintf("listed %s for %s ETH, view at %s",
		displayName(nft), seaport.FormatEther(r.priceWei),
		opensea.AssetURL(r.cfg.Chain, nft.Contract, nft.Identifier))
	return res
}

// filterCollection keeps tokens from the target contract. Comparison goes
// through canonical addresses, so letter case never excludes a token.
// Entries without a parseable contract address are dropped.
func filterCollection(nfts []opensea.NFT, collection common.Address) []opensea.NFT {
	var out []opensea.NFT
	for _, nft := range nfts {
		if !common.IsHexAddress(nft.Contract) {
			continue
		}
		if common.HexToAddress(nft.Contract) == collection {
			out = append(out, nft)
		}
	}
	return out
}

func displayName(nft opensea.NFT) string {
	if nft.Name != "" {
		return fmt.Sprintf("%s (#%s)", nft.Name, nft.Identifier)
	}
	return "#" + nft.Identifier
}
