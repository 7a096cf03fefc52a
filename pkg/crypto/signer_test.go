package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
)

func TestFromPrivateKeyHex(t *testing.T) {
	// A well-known test vector key.
	const key = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

	s1, err := FromPrivateKeyHex(key)
	if err != nil {
		t.Fatalf("failed to load key: %v", err)
	}
	if s1.Address() == (common.Address{}) {
		t.Error("derived zero address")
	}

	// 0x prefix and surrounding whitespace are tolerated.
	s2, err := FromPrivateKeyHex(" 0x" + key)
	if err != nil {
		t.Fatalf("failed to load prefixed key: %v", err)
	}
	if s1.Address() != s2.Address() {
		t.Errorf("address mismatch: %s vs %s", s1.Address().Hex(), s2.Address().Hex())
	}
}

func TestFromPrivateKeyHex_Malformed(t *testing.T) {
	for _, bad := range []string{"", "zz", "0x1234", "not a key"} {
		if _, err := FromPrivateKeyHex(bad); err == nil {
			t.Errorf("key %q accepted, want error", bad)
		}
	}
}

func TestSignAndRecover(t *testing.T) {
	signer, err := GenerateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	hash := eth_crypto.Keccak256([]byte("order digest"))
	signature, err := signer.Sign(hash)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(signature) != 65 {
		t.Fatalf("signature length = %d, want 65", len(signature))
	}

	recovered, err := RecoverAddress(hash, signature)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
}

func TestRecoverAddress_EthereumStyleV(t *testing.T) {
	signer, _ := GenerateKey()
	hash := eth_crypto.Keccak256([]byte("digest"))
	sig, err := signer.Sign(hash)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Recovery must accept V in 27/28 form as well as raw 0/1.
	sig[64] += 27
	recovered, err := RecoverAddress(hash, sig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
}

func TestSign_RejectsBadDigest(t *testing.T) {
	signer, _ := GenerateKey()
	if _, err := signer.Sign([]byte("short")); err == nil {
		t.Error("non-32-byte digest accepted")
	}
}
