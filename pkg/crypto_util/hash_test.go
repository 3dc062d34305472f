package crypto_util

import (
	"strings"
	"testing"
)

func TestHashes(t *testing.T) {
	input := []byte("hello world")

	// SHA256
	sha256Hash := CalculateSHA256(input)
	if len(sha256Hash) != 64 { // 32 bytes * 2 hex chars
		t.Errorf("SHA256 哈希长度不匹配: 得到 %d, 期望 64", len(sha256Hash))
	}
	t.Logf("SHA256: %s", sha256Hash)

	// Keccak256
	keccakHash := CalculateKeccak256(input)
	if keccakHash != "47173285a8d7341e5e972fc677286384f802f8ef42a5ec5f03bbfa254cb01fad" {
		t.Errorf("Keccak256 结果不正确: %s", keccakHash)
	}

	// Blake3
	blake3Hash := CalculateBlake3(input)
	if len(blake3Hash) != 64 {
		t.Errorf("Blake3 哈希长度不匹配: 得到 %d, 期望 64", len(blake3Hash))
	}
	t.Logf("Blake3: %s", blake3Hash)
}

func TestTxHash(t *testing.T) {
	a := TxHash("campaign-1", "refund", "0xabc", "500")
	b := TxHash("campaign-1", "refund", "0xabc", "500")
	c := TxHash("campaign-1", "refund", "0xabc", "501")

	if !strings.HasPrefix(a, "0x") || len(a) != 66 {
		t.Fatalf("TxHash 格式错误: %s", a)
	}
	if a != b {
		t.Errorf("相同输入应得到相同哈希")
	}
	if a == c {
		t.Errorf("不同输入不应得到相同哈希")
	}
}
